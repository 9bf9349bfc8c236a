package rules

import (
	"errors"
	"fmt"

	"hellosleep/internal/model"
)

var (
	ErrUnknownFunction = errors.New("unknown rule function")
	ErrArity           = errors.New("rule function arity mismatch")
)

// Func is the signature of every library function; len(args) == Arity is guaranteed by Invoke
type Func func(args []string) Result

// Entry describes one library function
type Entry struct {
	Name  model.FunctionName
	Arity int
	Fn    Func
	Doc   string
}

var library = map[model.FunctionName]Entry{
	model.FuncSleepInefficiency: {
		Name: model.FuncSleepInefficiency, Arity: 4, Fn: IsSleepInefficient,
		Doc: "sleep time / time in bed below 0.85",
	},
	model.FuncUnhealthyLifestyle: {
		Name: model.FuncUnhealthyLifestyle, Arity: 2, Fn: IsUnhealthyLifestyle,
		Doc: "exercise + sunlight score below 3",
	},
	model.FuncIdle: {
		Name: model.FuncIdle, Arity: 2, Fn: IsIdle,
		Doc: "pressure + life richness score of at least 4",
	},
	model.FuncSpaceOveruse: {
		Name: model.FuncSpaceOveruse, Arity: 2, Fn: IsSpaceOverused,
		Doc: "bedroom or bed used for waking activities",
	},
	model.FuncMaladaptiveBehavior: {
		Name: model.FuncMaladaptiveBehavior, Arity: 6, Fn: HasMaladaptiveBehaviors,
		Doc: "at least 3 maladaptive behaviours",
	},
}

// Lookup returns the library entry for name
func Lookup(name model.FunctionName) (Entry, bool) {
	s, ok := library[name]
	return s, ok
}

// Names lists the library entries
func Names() []model.FunctionName {
	names := make([]model.FunctionName, 0, len(library))
	for n := range library {
		names = append(names, n)
	}
	return names
}

// Check validates a function rule against the library
func Check(name model.FunctionName, inputs int) error {
	s, ok := library[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	if s.Arity != inputs {
		return fmt.Errorf("%w: %s wants %d inputs, got %d", ErrArity, name, s.Arity, inputs)
	}
	return nil
}

// Invoke runs a library function
func Invoke(name model.FunctionName, args []string) (Result, error) {
	if err := Check(name, len(args)); err != nil {
		return Result{}, err
	}
	return library[name].Fn(args), nil
}
