package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/geo-analyzer/internal/model"
	"github.com/sells-group/geo-analyzer/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func buildRouter(env *pipelineEnv) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/analyze", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if strings.TrimSpace(body.Name) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
			return
		}

		analysis, err := env.Pipeline.Run(req.Context(), model.Business{
			Name: strings.TrimSpace(body.Name),
			URL:  strings.TrimSpace(body.URL),
		})
		if err != nil {
			// Internal detail stays in the logs.
			zap.L().Error("serve: analysis failed",
				zap.String("business", body.Name),
				zap.Error(err),
			)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "analysis failed"})
			return
		}

		writeJSON(w, http.StatusOK, analysis)
	})

	r.Get("/analyses", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		analyses, err := env.Store.ListAnalyses(req.Context(), store.AnalysisFilter{
			Status:     model.AnalysisStatus(q.Get("status")),
			WebsiteURL: q.Get("url"),
			Limit:      queryInt(q.Get("limit")),
			Offset:     queryInt(q.Get("offset")),
		})
		if err != nil {
			zap.L().Error("serve: list analyses failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list failed"})
			return
		}
		writeJSON(w, http.StatusOK, analyses)
	})

	r.Get("/analyses/{id}", func(w http.ResponseWriter, req *http.Request) {
		a, err := env.Store.GetAnalysis(req.Context(), chi.URLParam(req, "id"))
		if err != nil || a == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "analysis not found"})
			return
		}
		writeJSON(w, http.StatusOK, a)
	})

	return r
}

// queryInt parses a non-negative integer query parameter; anything else
// means "unset".
func queryInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
