package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nuttaphathuayudomsin-web/filingfetching/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "filingfetching",
	Short: "SEC Thailand DR filing monitor",
	Long:  "Crawls the SEC Thailand public filing list for DR securities, enriches each filing with its underlying stock and SET symbol, and exports the result as spreadsheets and report emails.",
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
