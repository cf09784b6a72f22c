package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/XueJourney/AgentRound/internal/domain"
)

func newAuthCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the gateway API key",
	}

	cmd.AddCommand(
		newAuthSetKeyCmd(configPath),
		newAuthWhichCmd(configPath),
		newAuthClearKeyCmd(configPath),
	)

	return cmd
}

func newAuthSetKeyCmd(configPath *string) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "set-key",
		Short: "Store the API key in the credential store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(*configPath)
			if err != nil {
				return err
			}

			key := strings.TrimSpace(value)
			if key == "" {
				prompter := newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "API key: ")
				line, _, err := prompter.readLine()
				if err != nil {
					return fmt.Errorf("read API key: %w", err)
				}
				key = line
			}
			if key == "" {
				return errors.New("API key is empty")
			}

			if err := app.secretStore.Put(cmd.Context(), apiKeySecret, key); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API key stored")
			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "API key (prompted when empty)")

	return cmd
}

func newAuthWhichCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "which",
		Short: "Show where the API key comes from",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(*configPath)
			if err != nil {
				return err
			}

			if key := strings.TrimSpace(app.cfg.APIKey); key != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "config file or environment (%s)\n", maskKey(key))
				return nil
			}

			key, err := app.secretStore.Get(cmd.Context(), apiKeySecret)
			if err != nil {
				if errors.Is(err, domain.ErrSecretNotFound) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no API key configured")
					return nil
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "credential store (%s)\n", maskKey(strings.TrimSpace(key)))
			return nil
		},
	}
}

func newAuthClearKeyCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-key",
		Short: "Remove the API key from the credential store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(*configPath)
			if err != nil {
				return err
			}

			if err := app.secretStore.Delete(cmd.Context(), apiKeySecret); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API key removed")
			return nil
		},
	}
}

// maskKey keeps only the last eight characters visible.
func maskKey(key string) string {
	runes := []rune(key)
	if len(runes) <= 8 {
		return "***"
	}
	return "***" + string(runes[len(runes)-8:])
}
