package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"terminal-commons/internal/core/cache"
	"terminal-commons/internal/core/config"
	"terminal-commons/internal/core/database"
	"terminal-commons/internal/core/logger"
	"terminal-commons/internal/core/proxy"
	authservice "terminal-commons/internal/features/auth/service"
	"terminal-commons/internal/features/containers/mapping"
	scraperadapters "terminal-commons/internal/features/scrapers/adapters"
	scraperports "terminal-commons/internal/features/scrapers/ports"
	"terminal-commons/internal/features/scrapers/runner"
	shipmentadapters "terminal-commons/internal/features/shipments/adapters"
	"terminal-commons/internal/features/shipments/domain"
	shipmentservice "terminal-commons/internal/features/shipments/service"
)

func newRunCommand(cfg **config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scraper>",
		Short: "Run one scraping pass for a terminal (APM, PNCT, PTP)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, cleanup, err := buildRunner(*cfg, domain.Scraper(args[0]))
			if err != nil {
				return err
			}
			defer cleanup()

			target, _ := (*cfg).Scraper.TargetShipmentID()
			return r.RunFor(cmd.Context(), target)
		},
	}
}

func newTriggerCommand(cfg **config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger <shipment-id>",
		Short: "Scrape one shipment immediately, ignoring eligibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("shipment id must be a UUID: %w", err)
			}

			db, err := database.Connect((*cfg).Database.DSN, logger.Get())
			if err != nil {
				return err
			}
			shipment, err := shipmentadapters.NewShipmentRepository(db).GetByID(target)
			if err != nil {
				return fmt.Errorf("look up shipment %s: %w", target, err)
			}

			r, cleanup, err := buildRunner(*cfg, domain.Scraper(shipment.TerminalID))
			if err != nil {
				return err
			}
			defer cleanup()

			return r.RunFor(cmd.Context(), target)
		},
	}
}

// buildRunner wires one terminal's scraping stack the same way the API does.
func buildRunner(cfg *config.AppConfig, scraper domain.Scraper) (*runner.Runner, func(), error) {
	l := logger.Get()

	db, err := database.Connect(cfg.Database.DSN, l)
	if err != nil {
		return nil, nil, err
	}

	proxySettings := proxy.Settings{
		Enabled:  cfg.Proxy.Enabled,
		Hostname: cfg.Proxy.Hostname,
		Port:     cfg.Proxy.Port,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	}

	cleanup := func() {}
	var adapter scraperports.TerminalScraper
	switch scraper {
	case domain.ScraperAPM:
		pool := proxy.NewPool([]proxy.Settings{proxySettings})
		adapter = scraperadapters.NewAPMAdapter(cfg.Scraper.APMBaseURL, cfg.Scraper.Headless, pool, nil, uuid.New())
	case domain.ScraperPNCT:
		adapter, err = scraperadapters.NewPNCTAdapter(cfg.Scraper.PNCTBaseURL, proxySettings)
		if err != nil {
			return nil, nil, err
		}
	case domain.ScraperPTP:
		redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { redisCache.Close() }
		tokenSvc := authservice.NewTokenService(
			shipmentadapters.NewTokenRepository(db), redisCache,
			time.Duration(cfg.Redis.TokenTTLSeconds)*time.Second, l)
		adapter, err = scraperadapters.NewPTPAdapter(cfg.Scraper.PTPBaseURL, tokenSvc, proxySettings)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unknown scraper %q", scraper)
	}

	factory, err := mapping.NewContainerDataFactory(scraper, l)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	svc := shipmentservice.NewShipmentService(
		shipmentadapters.NewShipmentRepository(db),
		shipmentadapters.NewContainerRepository(db),
		shipmentadapters.NewShipmentLogRepository(db),
		l,
	)

	r := runner.New(adapter, svc, factory,
		shipmentadapters.NewScraperMetadataRepository(db), "@every 4h", uuid.Nil)
	return r, cleanup, nil
}
