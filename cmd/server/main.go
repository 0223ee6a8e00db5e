package main

import (
	"os"

	"github.com/blues/aidlink/internal/logger"
	"github.com/spf13/cobra"
)

const programName = "aidlink"

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "AidLink donation service with mock ledger and live feeds",
		RunE:  serveRun,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file")
	rootCmd.AddCommand(serveCommand(), demoCommand())

	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		logger.Sync()
		os.Exit(1)
	}
}
