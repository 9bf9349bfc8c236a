package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hellosleep/internal/catalog"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the built-in question, tag and booklet catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate catalog references and list tags without booklets",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			report := catalog.Validate()

			fmt.Fprintf(out, "%d questions, %d tags, %d booklets, %d facts\n",
				len(catalog.Questions()), len(catalog.Tags()), len(catalog.Booklets()), len(catalog.AllFacts()))
			for _, e := range report.Errors {
				color.New(color.FgRed).Fprintf(out, "  error: %s\n", e)
			}
			for _, g := range report.Gaps {
				color.New(color.FgYellow).Fprintf(out, "  gap: tag %s has no booklet\n", g)
			}
			if err := report.Err(); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(out, "catalog ok")
			return nil
		},
	})
	return cmd
}
