package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"nlp-master/internal/app"
	"nlp-master/internal/httputil"
	"nlp-master/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		qa, summary := deps.Workflow.Models()
		deps.Log.Info("web service listening", "addr", srv.Addr, "qa_model", qa, "summary_model", summary)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		deps.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if cerr := deps.Sessions.Close(); cerr != nil {
			deps.Log.Warn("failed to close session store", "err", cerr)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("web service stopped", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("web service exited")
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log, deps.Config.RequestTimeout)
	r.Use(httputil.Observe(deps.Metrics))

	r.Get("/", pageHandler(deps))
	r.Handle("/static/*", web.Static())

	r.Route("/api", func(r chi.Router) {
		r.Post("/qa", qaHandler(deps))
		r.Post("/summarize", summarizeHandler(deps))
		r.Get("/examples", examplesHandler(deps))
		r.Post("/examples/summarization/try", tryExampleHandler(deps))
		r.Post("/extract", extractHandler(deps))
	})

	r.Get("/healthz", httputil.HealthHandler(func() map[string]any {
		qa, summary := deps.Workflow.Models()
		return map[string]any{
			"qa_model":      qa,
			"summary_model": summary,
			"loaded_models": deps.LoadedModels(),
		}
	}))
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	return r
}
