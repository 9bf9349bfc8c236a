package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hellosleep/internal/cache"
	"hellosleep/internal/catalog"
	"hellosleep/internal/model"
	"hellosleep/internal/provider"
	"hellosleep/internal/service"
)

func evaluateCmd() *cobra.Command {
	var (
		pairs     []string
		recommend bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate [answers.json|-]",
		Short: "Evaluate an answer set and list tags, booklets and evidence",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := readAnswers(args, pairs, cmd.InOrStdin())
			if err != nil {
				return err
			}

			log := zap.NewNop()
			tags := service.NewTagService(catalog.Tags(), log)
			booklets := service.NewBookletService(catalog.Booklets(), catalog.Tags())
			questionnaire := service.NewQuestionnaireService(catalog.Questions())

			active := tags.Evaluate(answers)
			matched := booklets.Match(active)

			var result *model.RecommendationResult
			if recommend {
				result, err = runRecommendation(cmd, answers, tags, booklets, questionnaire)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"calculatedTags":  active,
					"booklets":        booklets.IDs(active),
					"progress":        questionnaire.Progress(answers),
					"missingRequired": questionnaire.MissingRequired(answers),
					"recommendation":  result,
				})
			}

			printEvaluation(out, tags, active, matched, questionnaire.Progress(answers), questionnaire.MissingRequired(answers))
			if result != nil {
				printRecommendation(out, result)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&pairs, "answer", "a", nil, "answer as question=value (repeatable)")
	cmd.Flags().BoolVar(&recommend, "recommend", false, "also run the recommendation pipeline (in-memory cache)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

// readAnswers merges a JSON answer file (or stdin for "-") with --answer pairs;
// pairs win on conflict.
func readAnswers(args, pairs []string, stdin io.Reader) (model.AnswerSet, error) {
	answers := model.AnswerSet{}
	if len(args) == 1 {
		var r io.Reader = stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		if err := json.NewDecoder(r).Decode(&answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
	}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("answer %q: want question=value", p)
		}
		answers[strings.TrimSpace(k)] = v
	}
	if len(cache.Normalize(answers)) == 0 {
		return nil, errors.New("no answers given")
	}
	return answers, nil
}

func runRecommendation(cmd *cobra.Command, answers model.AnswerSet, tags *service.TagService, booklets *service.BookletService, questionnaire *service.QuestionnaireService) (*model.RecommendationResult, error) {
	cfg, log, err := setup()
	if err != nil {
		return nil, err
	}
	defer log.Sync()

	providers, err := provider.NewChain(cmd.Context(), cfg.AI, log)
	if err != nil && !errors.Is(err, provider.ErrNoProviders) {
		return nil, err
	}
	patterns := cache.NewPatternCache(cache.NewMemoryStore(), cfg.Cache.HitThreshold, log)
	svc := service.NewRecommendationService(patterns, providers, tags, booklets, cfg.AI.Timeout(), cfg.AI.TopFacts, log)

	return svc.Recommend(cmd.Context(), &model.RecommendationRequest{
		Answers: answers,
		Context: questionnaire.Context(answers),
	})
}

func printEvaluation(w io.Writer, tags *service.TagService, active []string, matched []model.Booklet, progress float64, missing []string) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	cyan.Fprintln(w, "Assessment")
	fmt.Fprintf(w, "  progress: %.0f%%\n", progress*100)
	if len(missing) > 0 {
		yellow.Fprintf(w, "  missing required: %s\n", strings.Join(missing, ", "))
	}

	bold.Fprintln(w, "\nTags")
	if len(active) == 0 {
		green.Fprintln(w, "  none")
	}
	for _, name := range active {
		t, _ := tags.Tag(name)
		c := yellow
		if t.Severity == model.SeveritySevere {
			c = red
		}
		c.Fprintf(w, "  %-24s", name)
		fmt.Fprintf(w, " %s (%s)\n", t.Text, t.Priority)
	}

	bold.Fprintln(w, "\nBooklets")
	for _, b := range matched {
		fmt.Fprintf(w, "  %-28s %s\n", b.ID, b.Title)
	}

	facts := service.TopFacts(active, service.DefaultTopFacts)
	if len(facts) > 0 {
		bold.Fprintln(w, "\nEvidence")
		for _, f := range facts {
			fmt.Fprintf(w, "  - %s\n", f.Text)
		}
	}
}

func printRecommendation(w io.Writer, r *model.RecommendationResult) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)

	cyan.Fprintf(w, "\nRecommendations (%s", r.Source)
	if r.Provider != "" {
		cyan.Fprintf(w, ", %s", r.Provider)
	}
	cyan.Fprintf(w, ", urgency %s)\n", r.Summary.Urgency)
	for _, rec := range r.Recommendations {
		bold.Fprintf(w, "  [%s] %s\n", rec.Priority, rec.Title)
		fmt.Fprintf(w, "      %s\n", rec.Description)
		for _, a := range rec.Actions {
			fmt.Fprintf(w, "      * %s (%s)\n", a.Title, a.Frequency)
		}
	}
}
