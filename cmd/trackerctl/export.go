package main

import (
	"fmt"
	"io"
	"os"

	"leetracker/internal/ingest"
	"leetracker/internal/models"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var company, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write questions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var questions []models.Question
			if company != "" {
				questions = a.tracker.ByCompany(company)
				if len(questions) == 0 {
					return fmt.Errorf("no questions for company %q", company)
				}
			} else {
				questions = a.tracker.AllUnique()
			}

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return ingest.Write(out, questions)
		},
	}
	cmd.Flags().StringVarP(&company, "company", "c", "", "export a single company, duplicates included")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to a file instead of stdout")
	return cmd
}
