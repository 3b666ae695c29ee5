package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joestump/hxweather/internal/build"
	"github.com/joestump/hxweather/internal/config"
	"github.com/joestump/hxweather/internal/handler"
	"github.com/joestump/hxweather/internal/instructions"
	"github.com/joestump/hxweather/internal/llm"
	"github.com/joestump/hxweather/internal/logging"
	"github.com/joestump/hxweather/internal/prompt"
	"github.com/joestump/hxweather/internal/tracing"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := tracing.Init(ctx, cfg, logger)
			if err != nil {
				return err
			}

			// Loaded once; never written again.
			doc, err := instructions.Load(cfg.Instructions.Path)
			if err != nil {
				return err
			}
			logger.Info("instructions loaded",
				zap.String("path", cfg.Instructions.Path),
				zap.Int("chars", len(doc.String())),
			)

			gen, err := llm.New(cfg)
			if err != nil {
				return err
			}
			if cfg.LLM.APIKey == "" {
				logger.Warn("no LLM API key configured; generation requests will fail", zap.String("provider", gen.Name()))
			}

			router := handler.NewRouter(handler.Deps{
				Composer:  prompt.New(doc),
				Generator: gen,
				Logger:    logger,
			})

			// No write timeout: a generation holds the response open for as
			// long as the model streams.
			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("listening",
					zap.String("addr", cfg.HTTP.Addr),
					zap.String("provider", gen.Name()),
					zap.String("version", build.Version),
				)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return errors.Join(srv.Shutdown(shutdownCtx), shutdownTracing(shutdownCtx))
			})
			return g.Wait()
		},
	}
}
