package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/enchant-engine/internal/config"
	"github.com/xtding233/enchant-engine/internal/enchant"
	"github.com/xtding233/enchant-engine/internal/game"
	"github.com/xtding233/enchant-engine/internal/httpapi"
	"github.com/xtding233/enchant-engine/internal/logger"
	"github.com/xtding233/enchant-engine/internal/metrics"
	"github.com/xtding233/enchant-engine/internal/rpc"
	"github.com/xtding233/enchant-engine/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logCfg, err := logger.LoadConfig(cfg.LogConfig)
	if err != nil {
		return err
	}
	log, closer := logger.New(logCfg, os.Stdout)
	defer closer.Close()
	slog.SetDefault(log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	loader := game.NewLoader(cfg.ConfigDir)
	svc := service.New(enchant.Default(), service.Options{
		SimConcurrency: cfg.SimConcurrency,
		SimTimeout:     cfg.SimTimeout,
		Logger:         log,
		Metrics:        metrics.New(reg),
	})
	if err := svc.ReloadFrom(loader, cfg.Game); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	if cfg.HTTPAddr != "" {
		e := httpapi.NewRouter(svc, log, reg)
		g.Go(func() error {
			logger.Always(log, "http listening", "addr", cfg.HTTPAddr)
			if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
			defer cancel()
			return e.Shutdown(sctx)
		})
	}

	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
		}
		gs, hs := rpc.NewGRPCServer(svc, log)
		g.Go(func() error {
			logger.Always(log, "grpc listening", "addr", lis.Addr().String())
			if err := gs.Serve(lis); err != nil {
				return fmt.Errorf("grpc: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			hs.Shutdown()
			gs.GracefulStop()
			return nil
		})
	}

	if cfg.ReloadInterval > 0 {
		w := game.NewFileWatcher(loader.Paths().Files(cfg.Game), cfg.ReloadInterval, func(changed []string) {
			log.Info("rule files changed", "paths", changed)
			loader.Invalidate()
			// a failed reload keeps the previous tables; it is logged and counted
			_ = svc.ReloadFrom(loader, cfg.Game)
		})
		g.Go(func() error {
			if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	err = g.Wait()
	logger.Always(log, "server stopped")
	return err
}
