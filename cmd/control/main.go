package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apiserver "github.com/chourmovs/azursmartmix-control/internal/api/server"
	"github.com/chourmovs/azursmartmix-control/internal/compose"
	"github.com/chourmovs/azursmartmix-control/internal/config"
	"github.com/chourmovs/azursmartmix-control/internal/containers"
	"github.com/chourmovs/azursmartmix-control/internal/icecast"
	"github.com/chourmovs/azursmartmix-control/internal/logging"
	"github.com/chourmovs/azursmartmix-control/internal/metrics"
	"github.com/chourmovs/azursmartmix-control/internal/schedulerapi"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	logger, err := logging.InitLogger(cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("Unable to init logger: %v", err)
	}
	defer logger.Sync()

	// 2. Setup Metrics
	metrics.RegisterMetrics()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/_metrics", promhttp.Handler())
		logger.Info("metrics exposed", zap.String("addr", cfg.Server.MetricsPort+"/_metrics"))
		if err := http.ListenAndServe(cfg.Server.MetricsPort, mux); err != nil {
			logger.Warn("metrics server error", zap.Error(err))
		}
	}()

	// 3. Init Collaborators
	docker, err := containers.New(logger)
	if err != nil {
		logger.Fatal("docker client init failed", zap.Error(err))
	}

	ice := icecast.New(
		cfg.Icecast.Scheme, cfg.Icecast.Host, cfg.Icecast.Port,
		cfg.Icecast.StatusPath, cfg.Icecast.Mount, logger,
	)
	sched := schedulerapi.New(cfg.Scheduler.BaseURL, cfg.Scheduler.NowEndpoint, logger)
	runner := compose.NewRunner(cfg.Compose.Path, cfg.Compose.ProjectDir, 0, logger)

	// 4. Start Server
	srv := apiserver.New(cfg, logger, docker, ice, sched, runner)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("control panel starting",
		zap.String("addr", addr),
		zap.String("engine", cfg.Containers.Engine),
		zap.String("scheduler", cfg.Containers.Scheduler))

	if err := srv.Start(addr); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}
