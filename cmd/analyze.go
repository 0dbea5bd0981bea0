package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/geo-analyzer/internal/model"
)

var (
	analyzeName string
	analyzeURL  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one business's visibility in AI answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		analysis, err := env.Pipeline.Run(ctx, model.Business{
			Name: analyzeName,
			URL:  analyzeURL,
		})
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		zap.L().Info("analysis complete",
			zap.String("business", analyzeName),
			zap.Float64("geo_score", analysis.Result.GeoScore),
			zap.Float64("benchmark_score", analysis.Result.BenchmarkScore),
			zap.Int("llm_mentions", analysis.Result.LLMMentions),
		)

		// Print result JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis.Result)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "business name (required)")
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "business website URL")
	_ = analyzeCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(analyzeCmd)
}
