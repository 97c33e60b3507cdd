package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrisense/advisor-cli/internal/disease"
	"github.com/agrisense/advisor-cli/internal/normalize"
	"github.com/agrisense/advisor-cli/internal/workflow"
	"github.com/agrisense/advisor-cli/pkg/advisory"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP bridge for the browser UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(env *engineEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authGate(env))

		r.Post("/preview", handlePreview(env))
		r.Post("/confirm", handleConfirm(env))
		r.Post("/back", handleBack(env))
		r.Post("/locate/point", handleLocatePoint(env))
		r.Post("/detect-disease", handleDetectDisease(env))
		r.Get("/history", handleHistoryList(env))
		r.Delete("/history", handleHistoryClear(env))
	})

	return r
}

// authGate rejects advisory routes when the persisted auth flag is off.
// The flag is the only observable auth behavior; there is no session layer.
func authGate(env *engineEnv) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !env.Prefs.Authenticated(r.Context()) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handlePreview(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form normalize.FormFields
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		snapshot, err := env.Advisory.Preview(r.Context(), form)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func handleConfirm(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := env.Advisory.Confirm(r.Context())
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleBack(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env.Advisory.Back()
		writeJSON(w, http.StatusOK, map[string]string{"state": string(env.Advisory.State())})
	}
}

func handleLocatePoint(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var point struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		}
		if err := json.NewDecoder(r.Body).Decode(&point); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		loc, err := env.Resolver.ResolveMapPick(r.Context(), point.Lat, point.Lng)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": advisory.UserMessage(err)})
			return
		}
		writeJSON(w, http.StatusOK, loc)
	}
}

func handleDetectDisease(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file field is required"})
			return
		}
		defer file.Close()

		result, err := env.Disease.Detect(r.Context(), header.Filename, header.Size, header.Header.Get("Content-Type"), file)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleHistoryList(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, env.History.ReadRecent(r.Context(), 20))
	}
}

func handleHistoryClear(env *engineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := env.History.Clear(r.Context()); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "clear failed"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeWorkflowError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case isClientFault(err):
		status = http.StatusBadRequest
	case isBusy(err):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": advisory.UserMessage(err)})
}

func isClientFault(err error) bool {
	return eris.Is(err, workflow.ErrValidation) ||
		eris.Is(err, workflow.ErrNotPreviewed) ||
		eris.Is(err, disease.ErrFileTooLarge) ||
		eris.Is(err, disease.ErrUnsupportedType)
}

func isBusy(err error) bool {
	return eris.Is(err, workflow.ErrBusy) || eris.Is(err, disease.ErrBusy)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
