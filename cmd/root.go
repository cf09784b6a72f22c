package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "agentround",
		Short:         "AgentRound: turn-based roundtable discussions between LLMs",
		Long:          "agentround moderates turn-based discussions between multiple language models on a shared topic: every agent speaks once per round, reads the others' statements, and the run ends with per-agent summaries and a Markdown transcript.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Commands wire their dependencies at run time, after the --config
	// flag has been parsed.
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: {user config dir}/agentround/config.toml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newDiscussCmd(&configPath),
		newModelsCmd(&configPath),
		newRosterCmd(&configPath),
		newAuthCmd(&configPath),
	)

	return rootCmd
}
