package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terralith/sitepoint-cli/internal/export"
	"github.com/terralith/sitepoint-cli/internal/ingest"
	"github.com/terralith/sitepoint-cli/internal/pipeline"
	"github.com/terralith/sitepoint-cli/internal/sink"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the analysis pipeline over HTTP",
	Long:  "Thin HTTP adapter around the engine: POST a GeoJSON FeatureCollection and receive the summary report or SQL export.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := pipeline.New(cfg)
		if err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		r.Post("/v1/analyze", func(w http.ResponseWriter, req *http.Request) {
			features, err := ingest.ReadGeoJSON(req.Body)
			if err != nil {
				http.Error(w, `{"error":"invalid feature collection"}`, http.StatusBadRequest)
				return
			}
			result, err := p.Run(req.Context(), features)
			if err != nil {
				zap.L().Error("analyze request failed", zap.Error(err))
				http.Error(w, `{"error":"analysis failed"}`, http.StatusUnprocessableEntity)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(result.Summary)
		})

		r.Post("/v1/statements", func(w http.ResponseWriter, req *http.Request) {
			features, err := ingest.ReadGeoJSON(req.Body)
			if err != nil {
				http.Error(w, `{"error":"invalid feature collection"}`, http.StatusBadRequest)
				return
			}
			result, err := p.Run(req.Context(), features)
			if err != nil {
				zap.L().Error("statements request failed", zap.Error(err))
				http.Error(w, `{"error":"analysis failed"}`, http.StatusUnprocessableEntity)
				return
			}
			schema := export.Infer(result.Store)
			w.Header().Set("Content-Type", "application/sql")
			if err := (sink.FileSink{W: w}).Write(req.Context(), cfg.Export.Table, schema, result.Store); err != nil {
				zap.L().Error("statements write failed", zap.Error(err))
			}
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(cmd.Context())
		}()

		zap.L().Info("server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
