// Package app wires the wallet core together: one App owns the store, the
// background writer and every stateful component.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/walletbook/walletbook/internal/aggregate"
	"github.com/walletbook/walletbook/internal/budget"
	"github.com/walletbook/walletbook/internal/categories"
	"github.com/walletbook/walletbook/internal/config"
	"github.com/walletbook/walletbook/internal/currency"
	"github.com/walletbook/walletbook/internal/id"
	"github.com/walletbook/walletbook/internal/importer"
	"github.com/walletbook/walletbook/internal/kv"
	"github.com/walletbook/walletbook/internal/ledger"
	"github.com/walletbook/walletbook/internal/logger"
	"github.com/walletbook/walletbook/internal/wallets"
)

var (
	// ErrNotFound is returned when an id names no wallet or transaction.
	ErrNotFound = errors.New("not found")
	// ErrLastWallet is returned when deleting the only remaining wallet.
	ErrLastWallet = errors.New("cannot delete the last wallet")
)

// DefaultWriteTimeout bounds each background store write.
const DefaultWriteTimeout = 5 * time.Second

// Options configure New.
type Options struct {
	Currency     string
	Location     *time.Location
	IDs          id.Generator
	Log          zerolog.Logger
	Now          func() time.Time
	WriteTimeout time.Duration
	// Sync writes through to the store on every mutation instead of using
	// the background writer.
	Sync bool
}

// App is the application context.
type App struct {
	Wallets    *wallets.Registry
	Ledger     *ledger.Ledger
	Budget     *budget.Config
	Categories *categories.Catalog
	Engine     aggregate.Engine
	Formatter  currency.Formatter
	Importers  *importer.Registry
	Now        func() time.Time

	store  kv.Store
	writer *kv.Writer
	log    zerolog.Logger
}

// Open builds the store described by cfg and loads every component.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, err := kv.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}

	log.Debug().Str("backend", cfg.Store.Backend).Str("path", cfg.Store.Path).Msg("store opened")
	return New(ctx, store, Options{
		Currency: cfg.Currency,
		Location: loc,
		IDs:      id.New(cfg.IDs),
		Log:      log,
	}), nil
}

// New loads every component from store. The App owns store from here on.
func New(ctx context.Context, store kv.Store, opts Options) *App {
	if opts.IDs == nil {
		opts.IDs = id.UUID{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}

	a := &App{
		Engine:    aggregate.New(opts.Location),
		Formatter: currency.Formatter{Fallback: opts.Currency},
		Importers: importer.NewRegistry(),
		Now:       opts.Now,
		store:     store,
		log:       logger.Component(opts.Log, "app"),
	}

	var queue kv.Queue
	if opts.Sync {
		queue = kv.SyncQueue{Store: store, Log: opts.Log}
	} else {
		a.writer = kv.NewWriter(store, opts.Log, opts.WriteTimeout)
		queue = a.writer
	}

	a.Wallets = wallets.Load(ctx, store, queue, opts.IDs, opts.Currency, opts.Log)
	a.Ledger = ledger.Load(ctx, store, queue, opts.IDs, opts.Log)
	a.Budget = budget.Load(ctx, store, queue, opts.Log)
	a.Categories = categories.Load(ctx, store, queue, opts.IDs, opts.Log)

	a.Importers.Register(&importer.ChaseParser{Location: opts.Location})
	a.Importers.Register(&importer.NativeParser{Location: opts.Location})

	return a
}

// Flush blocks until every queued write has reached the store.
func (a *App) Flush() {
	if a.writer != nil {
		a.writer.Flush()
	}
}

// Close flushes pending writes and closes the store.
func (a *App) Close() error {
	if a.writer != nil {
		a.writer.Close()
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}
