package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"terminal-commons/internal/core/cache"
	"terminal-commons/internal/core/config"
	"terminal-commons/internal/core/database"
	"terminal-commons/internal/core/logger"
	"terminal-commons/internal/core/proxy"
	"terminal-commons/internal/core/scheduler"
	"terminal-commons/internal/core/server"
	"terminal-commons/internal/core/storage"
	authservice "terminal-commons/internal/features/auth/service"
	"terminal-commons/internal/features/containers/mapping"
	scraperadapters "terminal-commons/internal/features/scrapers/adapters"
	scraperports "terminal-commons/internal/features/scrapers/ports"
	"terminal-commons/internal/features/scrapers/runner"
	shipmentadapters "terminal-commons/internal/features/shipments/adapters"
	"terminal-commons/internal/features/shipments/domain"
	shipmenthandler "terminal-commons/internal/features/shipments/handler"
	shipmentservice "terminal-commons/internal/features/shipments/service"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx := context.Background()

	db, err := database.Connect(cfg.Database.DSN, l)
	if err != nil {
		l.Fatal("Database connection failed", zap.Error(err))
	}
	if err := database.Migrate(ctx, db, l); err != nil {
		l.Fatal("Database migration failed", zap.Error(err))
	}
	if err := database.Seed(db, l); err != nil {
		l.Fatal("Scraper metadata seeding failed", zap.Error(err))
	}

	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisCache.Close()

	shipmentRepo := shipmentadapters.NewShipmentRepository(db)
	containerRepo := shipmentadapters.NewContainerRepository(db)
	logRepo := shipmentadapters.NewShipmentLogRepository(db)
	metadataRepo := shipmentadapters.NewScraperMetadataRepository(db)
	tokenRepo := shipmentadapters.NewTokenRepository(db)

	shipmentSvc := shipmentservice.NewShipmentService(shipmentRepo, containerRepo, logRepo, l)
	tokenSvc := authservice.NewTokenService(
		tokenRepo, redisCache,
		time.Duration(cfg.Redis.TokenTTLSeconds)*time.Second, l)

	proxySettings := proxy.Settings{
		Enabled:  cfg.Proxy.Enabled,
		Hostname: cfg.Proxy.Hostname,
		Port:     cfg.Proxy.Port,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	}
	pool := proxy.NewPool([]proxy.Settings{proxySettings})

	var uploads *storage.Uploader
	if cfg.AWS.Bucket != "" {
		uploads, err = storage.NewUploader(ctx, cfg.AWS.Region, cfg.AWS.Bucket)
		if err != nil {
			l.Fatal("S3 uploader init failed", zap.Error(err))
		}
	}

	target, _ := cfg.Scraper.TargetShipmentID()

	apmAdapter := scraperadapters.NewAPMAdapter(cfg.Scraper.APMBaseURL, cfg.Scraper.Headless, pool, uploads, uuid.New())
	pnctAdapter, err := scraperadapters.NewPNCTAdapter(cfg.Scraper.PNCTBaseURL, proxySettings)
	if err != nil {
		l.Fatal("PNCT adapter init failed", zap.Error(err))
	}
	ptpAdapter, err := scraperadapters.NewPTPAdapter(cfg.Scraper.PTPBaseURL, tokenSvc, proxySettings)
	if err != nil {
		l.Fatal("PTP adapter init failed", zap.Error(err))
	}

	newRunner := func(s scraperports.TerminalScraper) *runner.Runner {
		factory, err := mapping.NewContainerDataFactory(s.Scraper(), l)
		if err != nil {
			l.Fatal("Factory init failed", zap.String("scraper", string(s.Scraper())), zap.Error(err))
		}
		return runner.New(s, shipmentSvc, factory, metadataRepo, "@every 4h", target)
	}

	runners := map[domain.Scraper]*runner.Runner{
		domain.ScraperAPM:  newRunner(apmAdapter),
		domain.ScraperPNCT: newRunner(pnctAdapter),
		domain.ScraperPTP:  newRunner(ptpAdapter),
	}

	workers := make([]scheduler.Worker, 0, len(runners))
	triggers := make(map[domain.Scraper]shipmenthandler.RunTrigger, len(runners))
	for s, r := range runners {
		workers = append(workers, r)
		triggers[s] = r
	}

	orchestrator := scheduler.NewOrchestrator(workers)
	cronRunner, err := orchestrator.Start(ctx)
	if err != nil {
		l.Fatal("Scheduler start failed", zap.Error(err))
	}
	defer cronRunner.Stop()

	srv := server.New(cfg)
	shipmenthandler.NewShipmentHandler(shipmentSvc, triggers).Register(srv.App)

	go func() {
		if err := srv.Run(); err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	l.Info("Shutting down")
	if err := srv.Shutdown(); err != nil {
		l.Error("Server shutdown failed", zap.Error(err))
	}
}
