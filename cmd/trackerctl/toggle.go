package main

import (
	"errors"
	"fmt"

	"leetracker/internal/store"

	"github.com/spf13/cobra"
)

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip a question between completed and pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := a.tracker.ToggleComplete(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("question %q not found", args[0])
			}
			if err != nil {
				return err
			}
			state := "pending"
			if question.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", question.Title, question.Company, state)
			return nil
		},
	}
}
