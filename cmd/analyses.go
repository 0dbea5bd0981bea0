package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/geo-analyzer/internal/model"
	"github.com/sells-group/geo-analyzer/internal/store"
)

var analysesCmd = &cobra.Command{
	Use:   "analyses",
	Short: "Inspect analysis history",
	Long:  "Commands for listing and viewing stored analyses.",
}

// -- analyses list --

var analysesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List analyses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		url, _ := cmd.Flags().GetString("url")
		limit, _ := cmd.Flags().GetInt("limit")

		analyses, err := st.ListAnalyses(ctx, store.AnalysisFilter{
			Status:     model.AnalysisStatus(status),
			WebsiteURL: url,
			Limit:      limit,
		})
		if err != nil {
			return eris.Wrap(err, "analyses list")
		}

		if len(analyses) == 0 {
			fmt.Fprintln(os.Stderr, "No analyses found.")
			return nil
		}

		formatAnalysesList(os.Stdout, analyses)
		return nil
	},
}

// -- analyses show --

var analysesShowCmd = &cobra.Command{
	Use:   "show <analysis-id>",
	Short: "Show full details of an analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		a, err := st.GetAnalysis(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "analyses show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	},
}

func formatAnalysesList(out io.Writer, analyses []model.Analysis) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tBUSINESS\tSTATUS\tGEO\tBENCHMARK\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t--------\t------\t---\t---------\t-------")

	for _, a := range analyses {
		name := a.Business.Name
		if name == "" {
			name = a.Business.URL
		}
		if len(name) > 30 {
			name = name[:27] + "..."
		}

		geo, bench := "-", "-"
		if a.Result != nil {
			geo = fmt.Sprintf("%.1f", a.Result.GeoScore)
			bench = fmt.Sprintf("%.1f", a.Result.BenchmarkScore)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(a.ID),
			name,
			a.Status,
			geo,
			bench,
			a.CreatedAt.Format(time.RFC3339),
		)
	}
	_ = w.Flush()
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	analysesListCmd.Flags().String("status", "", "filter by status")
	analysesListCmd.Flags().String("url", "", "filter by website URL")
	analysesListCmd.Flags().Int("limit", 20, "maximum rows")

	analysesCmd.AddCommand(analysesListCmd)
	analysesCmd.AddCommand(analysesShowCmd)
	rootCmd.AddCommand(analysesCmd)
}
