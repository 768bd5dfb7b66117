package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/plantsignal/sunbeam/core"
	"github.com/plantsignal/sunbeam/internal/logging"
	"github.com/plantsignal/sunbeam/internal/observability"
	"github.com/plantsignal/sunbeam/internal/sensor"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address for the report API")
	metricsAddr := flag.String("metrics-addr", ":9090", "listen address for Prometheus metrics")
	configPath := flag.String("config", "configs/room.json", "path to the JSON scene configuration")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *addr, *metricsAddr, *configPath); err != nil {
		log.Error(ctx, "server exited", logging.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, log logging.Logger, addr, metricsAddr, configPath string) error {
	f, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("open scene config %q: %w", configPath, err)
	}
	scene, err := core.LoadScene(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	collector, err := observability.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	svc := sensor.New(scene,
		sensor.WithLogger(log),
		sensor.WithMetrics(collector),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /report", func(w http.ResponseWriter, r *http.Request) {
		rep := svc.Report(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rep); err != nil {
			log.Error(r.Context(), "encode report", logging.String("error", err.Error()))
		}
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	apiServer := &http.Server{Addr: addr, Handler: mux}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", collector.Handler())
	metricsServer := &http.Server{Addr: metricsAddr, Handler: metricsMux}

	errCh := make(chan error, 2)
	go func() {
		log.Info(ctx, "report API listening", logging.String("addr", addr))
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("report API: %w", err)
		}
	}()
	go func() {
		log.Info(ctx, "metrics listening", logging.String("addr", metricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info(ctx, "shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "report API shutdown", logging.String("error", err.Error()))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "metrics shutdown", logging.String("error", err.Error()))
	}
	return nil
}
