package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"leetracker/internal/ingest"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var company string
	cmd := &cobra.Command{
		Use:   "import --company NAME FILE...",
		Short: "Import one or more CSV question lists for a company",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			imported := 0
			for _, path := range args {
				count, dropped, err := importFile(cmd, a, company, path)
				if err != nil {
					fmt.Fprintf(out, "%s: failed: %v\n", filepath.Base(path), err)
					continue
				}
				imported++
				fmt.Fprintf(out, "%s: %d questions", filepath.Base(path), count)
				if dropped > 0 {
					fmt.Fprintf(out, " (%d rows dropped)", dropped)
				}
				fmt.Fprintln(out)
			}
			if imported == 0 {
				return errors.New("no file imported")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&company, "company", "c", "", "company the questions belong to")
	cmd.MarkFlagRequired("company")
	return cmd
}

func importFile(cmd *cobra.Command, a *app, company, path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	parsed, err := ingest.ParseReader(f)
	if err != nil {
		return 0, 0, err
	}
	created, err := a.tracker.AddBatch(cmd.Context(), company, parsed.Drafts)
	if err != nil {
		return 0, 0, err
	}
	return len(created), parsed.Dropped, nil
}
