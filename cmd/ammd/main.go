package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-amm/internal/config"
	"github.com/tdex-network/tdex-amm/internal/core/application/pool"
	"github.com/tdex-network/tdex-amm/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
	"github.com/tdex-network/tdex-amm/internal/infrastructure/ledger/gateway"
	wspubsub "github.com/tdex-network/tdex-amm/internal/infrastructure/pubsub/websocket"
	dbbadger "github.com/tdex-network/tdex-amm/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-amm/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/tdex-network/tdex-amm/internal/interfaces/http"
	"github.com/tdex-network/tdex-amm/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repoManager, err := newRepoManager()
	if err != nil {
		log.WithError(err).Fatal("failed to open db")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := stats.NewPoolMetrics(registry)

	poolAccountID := config.GetString(config.PoolAccountIDKey)
	authSecret := []byte(config.GetString(config.AuthSecretKey))

	ledger, err := gateway.NewLedger(gateway.Config{
		URL:       config.GetString(config.LedgerGatewayURLKey),
		AccountID: poolAccountID,
		Secret:    authSecret,
		RateLimit: config.GetInt(config.LedgerRateLimitKey),
		Timeout:   config.GetSeconds(config.LedgerTimeoutKey),
		Metrics:   metrics,
	})
	if err != nil {
		repoManager.Close()
		log.WithError(err).Fatal("failed to connect to ledger gateway")
	}

	events := wspubsub.NewService()

	poolSvc, err := pool.NewService(ctx, pool.Config{
		OperatorID:      config.GetString(config.OperatorIDKey),
		AssetA:          config.GetString(config.AssetAIDKey),
		AssetB:          config.GetString(config.AssetBIDKey),
		AccountID:       poolAccountID,
		Ledger:          ledger,
		RepoManager:     repoManager,
		PubSub:          pubsub.NewService(events),
		Metrics:         metrics,
		MetadataTimeout: config.GetSeconds(config.MetadataTimeoutKey),
	})
	if err != nil {
		events.Close()
		repoManager.Close()
		log.WithError(err).Fatal("failed to initialize pool")
	}

	profilerEnabled := config.GetBool(config.EnableProfilerKey)
	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:        fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey)),
		PoolSvc:        poolSvc,
		AuthSecret:     authSecret,
		Events:         events,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		EnableProfiler: profilerEnabled,
	})
	if err != nil {
		poolSvc.Close()
		log.WithError(err).Fatal("failed to create http interface")
	}

	if err := svc.Start(); err != nil {
		poolSvc.Close()
		log.WithError(err).Fatal("failed to start http interface")
	}
	log.Infof(
		"amm daemon is listening on port %d", config.GetInt(config.ListeningPortKey),
	)

	if profilerEnabled {
		stats.EnableMemoryStatistics(ctx, config.GetSeconds(config.StatsIntervalKey))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	<-sigChan

	log.Info("shutting down daemon")
	svc.Stop()
	cancel()
	if profilerEnabled {
		dumpPath := filepath.Join(
			config.GetDatadir(), config.ProfilerLocation, "metrics.prom",
		)
		if err := stats.DumpPrometheusMetrics(registry, dumpPath); err != nil {
			log.WithError(err).Warn("failed to dump metrics")
		}
	}
	poolSvc.Close()
	log.Info("exiting")
}

func newRepoManager() (ports.RepoManager, error) {
	if config.GetString(config.DBTypeKey) == config.DBInmemory {
		return inmemory.NewRepoManager(), nil
	}
	return dbbadger.NewRepoManager(config.GetDbDir(), log.StandardLogger())
}
