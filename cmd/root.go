package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hederw/nfs-extrator/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "nfs-extrator",
	Short: "Batch extraction of NFS-e invoice data from PDFs",
	Long:  "Rasterizes invoice PDFs, extracts structured fields via the Gemini vision API, and validates the results against authoritative spreadsheets.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
