package main

import (
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/geo-analyzer/internal/importer"
)

var (
	importXLSXPath string
	importSheet    string
	importSkipRows int
	importWorkers  int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Analyze a batch of businesses from an XLSX file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		businesses, err := importer.ReadBusinesses(importXLSXPath, importer.XLSXOptions{
			SheetName: importSheet,
			SkipRows:  importSkipRows,
		})
		if err != nil {
			return eris.Wrap(err, "import xlsx")
		}
		if len(businesses) == 0 {
			return eris.Errorf("no businesses found in %s", importXLSXPath)
		}

		env, err := initPipeline(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		var succeeded, failed atomic.Int64

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(importWorkers)

		for _, b := range businesses {
			g.Go(func() error {
				analysis, err := env.Pipeline.Run(gctx, b)
				if err != nil {
					failed.Add(1)
					zap.L().Error("import: analysis failed",
						zap.String("business", b.Name),
						zap.Error(err),
					)
					return nil
				}
				succeeded.Add(1)
				zap.L().Info("import: analysis complete",
					zap.String("business", b.Name),
					zap.Float64("geo_score", analysis.Result.GeoScore),
					zap.Int("llm_mentions", analysis.Result.LLMMentions),
				)
				return nil
			})
		}
		_ = g.Wait()

		zap.L().Info("import complete",
			zap.Int("total", len(businesses)),
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
			zap.String("xlsx", importXLSXPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importXLSXPath, "xlsx", "", "path to XLSX file (required)")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "sheet name (default: first sheet)")
	importCmd.Flags().IntVar(&importSkipRows, "skip-rows", 1, "header rows to skip")
	importCmd.Flags().IntVar(&importWorkers, "workers", 2, "concurrent analyses")
	_ = importCmd.MarkFlagRequired("xlsx")
	rootCmd.AddCommand(importCmd)
}
