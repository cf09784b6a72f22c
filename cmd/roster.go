package cmd

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
)

func newRosterCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage saved model rosters",
		Long:  "A roster is a named, ordered preset of model identifiers that discuss --roster uses as the participant list.",
	}

	cmd.AddCommand(
		newRosterSaveCmd(configPath),
		newRosterListCmd(configPath),
		newRosterShowCmd(configPath),
		newRosterDeleteCmd(configPath),
	)

	return cmd
}

func newRosterSaveCmd(configPath *string) *cobra.Command {
	var models []string

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Create or replace a roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := wireApp(*configPath)
			if err != nil {
				return err
			}

			roster, err := app.rosters.Save(cmd.Context(), args[0], models)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved roster %s (%d models)\n", roster.Name, len(roster.Models))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&models, "models", nil, "comma-separated model identifiers, in speaking order")
	_ = cmd.MarkFlagRequired("models")

	return cmd
}

func newRosterListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved rosters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(*configPath)
			if err != nil {
				return err
			}

			rosters, err := app.rosters.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(rosters) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no rosters saved")
				return nil
			}

			for _, roster := range rosters {
				line := fmt.Sprintf("%s (%d models)", sanitizeForTerminal(roster.Name), len(roster.Models))
				if !roster.UpdatedAt.IsZero() {
					line += ", updated " + roster.UpdatedAt.Format("2006-01-02 15:04")
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newRosterShowCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a roster's models in speaking order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := wireApp(*configPath)
			if err != nil {
				return err
			}

			roster, err := app.rosters.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, model := range roster.Models {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), sanitizeForTerminal(model))
			}
			return nil
		},
	}
}

func newRosterDeleteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := wireApp(*configPath)
			if err != nil {
				return err
			}

			if err := app.rosters.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted roster %s\n", args[0])
			return nil
		},
	}
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
