package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MaxGubin/LiteRT/internal/config"
	"github.com/MaxGubin/LiteRT/internal/httpapi"
	"github.com/MaxGubin/LiteRT/internal/manager"
	"github.com/MaxGubin/LiteRT/internal/registry"
	"github.com/MaxGubin/LiteRT/pkg/litert"
)

func serveCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the inference HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return serve(cmd, f, cfg)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.addr, "addr", ":8080", "HTTP listen address, e.g. :8080")
	fl.StringVar(&f.defaultModel, "default-model", "", "Default model id when request omits model")
	fl.IntVar(&f.cacheSize, "cache-size", 0, "Compiled models kept resident (0=default)")
	fl.IntVar(&f.maxQueueDepth, "max-queue-depth", 0, "Queued requests per model (0=default)")
	fl.IntVar(&f.maxWaitMS, "max-wait-ms", 0, "Max admission wait in ms (0=default)")
	fl.StringVar(&f.corsOrigins, "cors-origins", "", "Comma separated CORS origins (empty disables CORS)")
	return cmd
}

func serve(cmd *cobra.Command, f *rootFlags, cfg config.Config) error {
	log := newLogger(f.logLevel)

	reg, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		return err
	}
	log.Info().Int("models", len(reg)).Str("dir", cfg.ModelsDir).Msg("registry loaded")

	eng := buildEngine(cfg, log)
	mgr := manager.New(manager.ManagerConfig{
		Registry:        reg,
		DefaultModel:    cfg.DefaultModel,
		Engine:          eng,
		CacheSize:       cfg.CacheSize,
		MaxQueueDepth:   cfg.MaxQueueDepth,
		MaxWait:         time.Duration(cfg.MaxWaitMS) * time.Millisecond,
		AcceleratorName: cfg.Accelerator,
		Logger:          &log,
	})
	defer mgr.Close()

	httpapi.SetLogger(log)
	httpapi.RegisterEngineMetrics(func() (uint64, uint64, int) {
		st := mgr.Status()
		return st.CompilesTotal, st.EvictionsTotal, len(st.Instances)
	})
	if f.corsOrigins != "" {
		httpapi.SetCORSOptions(true, splitCSV(f.corsOrigins),
			[]string{"GET", "POST", "DELETE", "OPTIONS"}, []string{"Content-Type"})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	httpapi.SetBaseContext(ctx)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(mgr)}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Bool("runtime", litert.Available()).Msg("litertd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
		return err
	}
	return nil
}

// buildEngine wires the native runtime; without it the daemon still serves,
// answering inference with 503.
func buildEngine(cfg config.Config, log zerolog.Logger) manager.Engine {
	accel, ok := litert.ParseAccelerator(cfg.Accelerator)
	if !ok {
		log.Warn().Str("accelerator", cfg.Accelerator).Msg("unknown accelerator, using none")
		accel = litert.AcceleratorNone
	}
	eng, err := manager.NewEngine(manager.EngineConfig{
		Accelerator:        accel,
		DispatchLibraryDir: cfg.DispatchLibraryDir,
	})
	if err != nil {
		log.Warn().Err(err).Msg("native runtime unavailable, serving without engine")
		return manager.UnavailableEngine(err)
	}
	return eng
}
