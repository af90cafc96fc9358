package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/binda/internal/config"
	"github.com/BruksfildServices01/binda/internal/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New("bindactl", cfg.LogLevel)

	root := &cobra.Command{
		Use:           "bindactl",
		Short:         "Operational commands for the Binda booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd(cfg, log), sweepCmd(cfg, log))

	if err := root.Execute(); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}
