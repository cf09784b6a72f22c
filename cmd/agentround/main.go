package main

import (
	"os"

	"github.com/XueJourney/AgentRound/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
