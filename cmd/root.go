package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/config"
)

var (
	cfg        *config.Config
	sourceFlag string
	noCache    bool
)

var rootCmd = &cobra.Command{
	Use:   "ncaa-explorer",
	Short: "Explore NCAA Division I men's basketball data",
	Long:  "Loads team, player and transfer sheets from a workbook, then filters, ranks, compares and profiles them from the command line or over HTTP.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if sourceFlag != "" {
			c.Data.Source = sourceFlag
		}
		if noCache {
			c.Data.NoCache = true
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

func init() {
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "workbook path, CSV directory, .zip or URL (default from config)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "skip the snapshot cache")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
