package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"leetracker/internal/models"
	"leetracker/internal/stats"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	var company string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show overall or per-company progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agg := stats.NewAggregator(a.tracker)
			out := cmd.OutOrStdout()
			if company != "" {
				data := agg.CompanyStats(company)
				if data.Total == 0 {
					return fmt.Errorf("no questions for company %q", company)
				}
				printCompanyTable(out, []models.CompanyData{data})
				return nil
			}

			global := agg.GlobalStats()
			fmt.Fprintf(out, "Questions:   %d\n", global.TotalQuestions)
			fmt.Fprintf(out, "Completed:   %d (%d%%)\n", global.CompletedQuestions, global.CompletionRate)
			fmt.Fprintf(out, "Streak:      %d days\n", global.CurrentStreak)
			fmt.Fprintf(out, "Active days: %d\n", global.ActiveDays)
			fmt.Fprintf(out, "Companies:   %d\n", global.Companies)
			return nil
		},
	}
	cmd.Flags().StringVarP(&company, "company", "c", "", "limit to one company")
	return cmd
}

func newCompaniesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List companies with question counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := stats.NewAggregator(a.tracker).Companies()
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No companies imported yet.")
				return nil
			}
			printCompanyTable(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func printCompanyTable(out io.Writer, list []models.CompanyData) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Company\tTotal\tDone\tEasy\tMedium\tHard")
	fmt.Fprintln(w, "-------\t-----\t----\t----\t------\t----")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n", c.Name, c.Total, c.Completed, c.Easy, c.Medium, c.Hard)
	}
	w.Flush()
}
