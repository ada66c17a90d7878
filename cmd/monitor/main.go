package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/metrics"
	"StockPulse/internal/monitor"
	"StockPulse/internal/scheduler"
	"StockPulse/internal/view"
	"StockPulse/internal/web"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	// Init fetcher
	var fetcher collector.Fetcher = collector.NewYahooFetcher(cfg.Proxy)
	if os.Getenv("MOCK_DATA") == "true" {
		fetcher = &collector.MockFetcher{}
	}
	fetcher = collector.NewCachedFetcher(fetcher, cfg.Refresh.CacheTTL.Duration())
	log.WithField("source", fetcher.Name()).Info("data source ready")

	// Init metrics and refresh state
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	state := monitor.NewState(cfg.DataSource.Symbol)

	// Wire loop and display surface through the shared board
	board := web.NewBoard(view.FormatInit(state.Snapshot().Symbol, time.Now()))
	loop := monitor.NewLoop(cfg, fetcher, state, board, log, m)
	srv, err := web.NewServer(cfg, loop, board, log, registry)
	if err != nil {
		log.Fatalf("init server: %v", err)
	}

	// Scheduler ticks every second; the loop's staleness gate decides
	// whether a tick becomes a full cycle.
	sched, err := scheduler.New(log, loop.Tick)
	if err != nil {
		log.Fatalf("init scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	httpSrv := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: srv.Router(),
	}
	go func() {
		log.WithFields(logrus.Fields{
			"listen": cfg.Server.Listen,
			"symbol": state.Snapshot().Symbol,
		}).Info("StockPulse is running")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Warnf("http shutdown: %v", err)
	}
	log.Info("StockPulse stopped")
}
