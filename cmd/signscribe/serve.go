package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/signscribe/internal/capture"
	"github.com/ayusman/signscribe/internal/config"
	"github.com/ayusman/signscribe/internal/detector"
	"github.com/ayusman/signscribe/internal/events"
	"github.com/ayusman/signscribe/internal/server"
	"github.com/ayusman/signscribe/internal/session"
	"github.com/ayusman/signscribe/internal/sign"
	"github.com/ayusman/signscribe/internal/sink"
	"github.com/ayusman/signscribe/internal/store"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr      string
		camera    bool
		autoStart bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, event stream and sink dispatcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("camera") {
				cfg.Camera.Enabled = camera
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger, autoStart)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&camera, "camera", false, "run the live camera loop")
	cmd.Flags().BoolVar(&autoStart, "start", false, "start a session immediately")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, autoStart bool) error {
	logger.Info("SignScribe - hand gesture transcription")

	var st *store.Store
	if cfg.Store.Path != "" {
		var err error
		st, err = store.New(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		logger.Info("store opened", zap.String("path", st.Path()))
	}

	classifier, err := sign.NewClassifier(thresholds(cfg, st, logger))
	if err != nil {
		return err
	}

	bus := events.NewBus(logger)
	defer bus.Close()

	sess, err := session.New(session.Config{
		Classifier: classifier,
		Debounce:   cfg.Debounce,
		Store:      st,
		Bus:        bus,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	sinks := sink.NewManager(cfg.Sinks.Dir, logger)
	if err := sinks.Discover(); err != nil {
		logger.Warn("sink discovery failed", zap.String("dir", cfg.Sinks.Dir), zap.Error(err))
	}
	dispatcher := sink.NewDispatcher(sinks, sink.NewExecutor(cfg.Sinks.Timeout), bus, logger)

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		logger.Info("serving static files", zap.String("dir", staticDir))
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Session:   sess,
		Store:     st,
		Bus:       bus,
		Logger:    logger,
	})

	if autoStart {
		if err := sess.Start(); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatcher.Run(ctx) })
	g.Go(func() error { return srv.ListenAndServe(ctx, cfg.Server.Addr) })

	if cfg.Camera.Enabled {
		g.Go(func() error { return runCamera(ctx, cfg, sess, logger) })
	}

	err = g.Wait()
	if stopErr := sess.Stop(); stopErr != nil {
		logger.Warn("failed to stop session", zap.Error(stopErr))
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runCamera drives the session from the local camera. A missing tracker
// disables the live loop without taking the server down.
func runCamera(ctx context.Context, cfg *config.Config, sess *session.Session, logger *zap.Logger) error {
	det, err := detector.NewMediaPipeDetector(cfg.Detector, logger.Named("mediapipe"))
	if err != nil {
		logger.Warn("live camera disabled", zap.Error(err))
		return nil
	}
	defer det.Close()

	cam := capture.NewCamera(cfg.Camera.Config)
	if err := sess.Run(ctx, cam, det); err != nil {
		if errors.Is(err, detector.ErrProviderUnavailable) {
			logger.Warn("live camera disabled", zap.Error(err))
			return nil
		}
		return err
	}
	return nil
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web", "../../web" and ~/.signscribe/web.
func findWebDir() string {
	candidates := []string{"web", "../web", "../../web", filepath.Join(config.DataDir(), "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
