package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"wikirace-go-solver/internal/app"
	"wikirace-go-solver/internal/config"
	"wikirace-go-solver/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New().Errorf("load config: %v", err)
		os.Exit(1)
	}
	l := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a, err := app.New(cfg, l, reg, cfg.LogLevel == "debug")
	if err != nil {
		l.Errorf("build solver: %v", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      newRouter(l, a.Solver, reg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Infof("server listening on %s (cache %s)", cfg.ListenAddr, a.Cache.Dir())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Infof("bye")
}
