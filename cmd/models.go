package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/XueJourney/AgentRound/internal/application"
	"github.com/XueJourney/AgentRound/internal/logging"
)

func newModelsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models selectable as participants",
		Long:  "models prints the configured model list, or the models advertised by the endpoint when none are configured, with the indices the discuss selection uses.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(*configPath)
			if err != nil {
				return err
			}

			apiKey, err := app.resolveAPIKey(cmd.Context())
			if err != nil {
				return err
			}

			logger := logging.NewConsole()
			catalog := application.NewModelCatalog(app.cfg.Models, app.newGateway(apiKey, logger), logger)

			models, err := catalog.Models(cmd.Context())
			if err != nil {
				return err
			}

			for i, model := range models {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d) %s\n", i, model)
			}
			return nil
		},
	}
}
