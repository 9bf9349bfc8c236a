package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hellosleep/internal/model"
)

func TestBuiltInCatalogIsValid(t *testing.T) {
	report := Validate()
	require.NoError(t, report.Err(), report.Errors)
	assert.Empty(t, report.Gaps, "every tag should have at least one booklet")
}

func TestEveryBookletTagExists(t *testing.T) {
	for _, b := range Booklets() {
		_, ok := TagByName(b.Tag)
		assert.True(t, ok, "booklet %s references unknown tag %s", b.ID, b.Tag)
	}
}

func TestEveryTagHasWeightAndFact(t *testing.T) {
	for _, tag := range Tags() {
		_, ok := TagWeights[tag.Name]
		assert.True(t, ok, "tag %s has no priority weight", tag.Name)
		assert.NotEmpty(t, Facts([]string{tag.Name}), "tag %s has no evidence fact", tag.Name)
	}
}

func TestDependenciesAreSingleHop(t *testing.T) {
	for _, q := range Questions() {
		if q.DependsOn == nil {
			continue
		}
		parent, ok := Question(q.DependsOn.QuestionID)
		require.True(t, ok)
		assert.Nil(t, parent.DependsOn, "%s depends on %s which is itself conditional", q.ID, parent.ID)
		assert.True(t, parent.HasOption(q.DependsOn.Value), "%s requires an undeclared parent value", q.ID)
	}
}

func TestQuestionsOrdered(t *testing.T) {
	qs := Questions()
	for i := 1; i < len(qs); i++ {
		assert.Less(t, qs[i-1].Order, qs[i].Order)
	}
}

func TestCheckRejectsBrokenTables(t *testing.T) {
	qs := []model.Question{{ID: "a"}, {ID: "b", DependsOn: &model.Dependency{QuestionID: "zzz", Value: "yes"}}}
	ts := []model.Tag{
		{Name: "unknown_fn", Rule: model.Call("doesNotExist", "a")},
		{Name: "bad_arity", Rule: model.Call(model.FuncIdle, "a")},
		{Name: "bad_input", Rule: model.Equals("missing", "yes")},
		{Name: "orphan", Rule: model.Equals("a", "yes")},
	}
	bs := []model.Booklet{
		{ID: "x", Tag: "unknown_fn"},
		{ID: "y", Tag: "no_such_tag"},
	}

	report := Check(qs, ts, bs)
	require.Error(t, report.Err())
	assert.ErrorIs(t, report.Err(), ErrInvalidCatalog)
	assert.Len(t, report.Errors, 5)
	assert.ElementsMatch(t, []string{"bad_arity", "bad_input", "orphan"}, report.Gaps)
}

func TestFactsKeepTableOrder(t *testing.T) {
	got := Facts([]string{TagNoiseIssues, TagIrregularSchedule})
	require.Len(t, got, 3)
	assert.Equal(t, TagIrregularSchedule, got[0].Tag)
	assert.Equal(t, TagNoiseIssues, got[2].Tag)
}
