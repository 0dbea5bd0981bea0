package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/geo-analyzer/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "geo-analyzer",
	Short: "Estimates how visible a business is in AI assistant answers",
	Long:  "Classifies a business, generates probe questions, checks whether AI answer engines mention it, and scores the result against an industry benchmark.",
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
