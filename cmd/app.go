package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/wod-booker/internal/booking"
	"github.com/example/wod-booker/internal/browser"
	"github.com/example/wod-booker/internal/config"
	"github.com/example/wod-booker/internal/gym"
	"github.com/example/wod-booker/internal/history"
	"github.com/example/wod-booker/internal/logging"
	"github.com/example/wod-booker/internal/store"
	"github.com/example/wod-booker/internal/wod"
)

// app wires the shared dependency graph used by the server, book and wod
// commands.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	store   *store.Redis
	machine *booking.Machine
	crawler *wod.Crawler
	history history.Recorder

	browser *browser.Playwright
	pg      *history.PG
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	st, err := store.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}

	pw, err := browser.Launch(cfg.Headless)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	sessions := &gym.Controller{
		Browser:     pw,
		SiteURL:     cfg.SiteURL,
		StepTimeout: cfg.StepTimeout,
		Log:         log.Named("gym"),
	}
	nav := &gym.Navigator{
		SignUpLabels: cfg.SignUpLabels,
		Log:          log.Named("gym"),
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		store:   st,
		browser: pw,
		history: history.Nop{},
	}

	if cfg.DatabaseURL != "" {
		pg, err := history.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.pg = pg
		a.history = pg
	}

	a.machine = &booking.Machine{
		Sessions: sessions,
		Nav:      nav,
		Store:    st,
		TTL:      cfg.BookingTTL,
		Log:      log.Named("booking"),
	}

	if acct, ok := crawlAccount(cfg); ok {
		crawlSlot, err := booking.ParseSlot(cfg.CrawlSlot)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("crawl_slot: %w", err)
		}
		a.crawler = &wod.Crawler{
			Sessions: sessions,
			Nav:      nav,
			Store:    st,
			Account:  acct,
			Slot:     crawlSlot,
			Log:      log.Named("wod"),
		}
	}

	return a, nil
}

// crawlAccount picks the login used for WOD crawling: the first scheduled
// account, else the first one.
func crawlAccount(cfg config.Config) (booking.Account, bool) {
	pick := func(a config.Account) booking.Account {
		return booking.Account{
			Name:        a.Name,
			Credentials: gym.Credentials{Email: a.Email, Password: a.Password},
		}
	}
	for _, a := range cfg.Accounts {
		if a.Scheduled {
			return pick(a), true
		}
	}
	if len(cfg.Accounts) > 0 {
		return pick(cfg.Accounts[0]), true
	}
	return booking.Account{}, false
}

func (a *app) close() {
	if a.pg != nil {
		a.pg.Close()
	}
	if a.browser != nil {
		if err := a.browser.Close(); err != nil {
			a.log.Warn("browser close failed", zap.Error(err))
		}
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	_ = a.log.Sync()
}
