package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/wallstreet101/internal/catalog"
	"github.com/abhisek/wallstreet101/internal/config"
	"github.com/abhisek/wallstreet101/internal/logging"
	"github.com/abhisek/wallstreet101/internal/market"
	"github.com/abhisek/wallstreet101/internal/store"
)

// deps are the collaborators shared by every command.
type deps struct {
	cfg     config.Config
	log     *logging.Logger
	store   *store.Store
	catalog *catalog.Catalog
	market  *market.Service
}

// setupOptions selects which collaborators a command needs.
type setupOptions struct {
	// tui keeps logs off the terminal the program draws on.
	tui     bool
	journal bool
	market  bool
}

// loadConfig reads the config layers and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{File: file})
	if err != nil {
		return config.Config{}, err
	}
	if dsn, _ := cmd.Flags().GetString("journal"); dsn != "" {
		cfg.Journal.DSN = dsn
	}
	if path, _ := cmd.Flags().GetString("catalog"); path != "" {
		cfg.Catalog.Path = path
	}
	return cfg, nil
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

func newMarket(cfg config.MarketConfig, logger *zap.Logger) *market.Service {
	client := market.NewClient(
		market.WithBaseURL(cfg.BaseURL),
		market.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		market.WithRateLimit(cfg.RateLimit, cfg.Burst),
	)
	return market.NewService(client, market.ServiceConfig{
		ShortTTL: cfg.ShortTTL,
		LongTTL:  cfg.LongTTL,
		Timeout:  cfg.Timeout,
	}, logger.Named("market"))
}

// setup builds the collaborators a command asked for. Close releases them.
func setup(cmd *cobra.Command, opts setupOptions) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if opts.tui {
		cfg.Log.Console = false
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	d := &deps{cfg: cfg, log: log}

	d.catalog, err = loadCatalog(cfg.Catalog)
	if err != nil {
		d.Close()
		return nil, err
	}

	if opts.journal {
		dsn := cfg.Journal.DSN
		if dsn == "" {
			dsn = store.MemoryDSN
		}
		d.store, err = store.Open(dsn)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("open journal: %w", err)
		}
	}
	if opts.market {
		d.market = newMarket(cfg.Market, log.Logger)
	}

	log.Debug("command setup",
		zap.String("command", cmd.Name()),
		zap.Bool("journal", d.store != nil),
		zap.Int("modules", d.catalog.Len()),
	)
	return d, nil
}

// eventRepo returns the journal, or nil when none was opened.
func (d *deps) eventRepo() store.EventRepo {
	if d.store == nil {
		return nil
	}
	return d.store.EventRepo()
}

func (d *deps) Close() error {
	var errs []error
	if d.store != nil {
		errs = append(errs, d.store.Close())
	}
	if d.log != nil {
		errs = append(errs, d.log.Close())
	}
	return errors.Join(errs...)
}
