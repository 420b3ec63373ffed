// Package budget holds per-wallet spending limits and the global cycle
// start day.
package budget

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/walletbook/walletbook/internal/cycle"
	"github.com/walletbook/walletbook/internal/kv"
	"github.com/walletbook/walletbook/internal/logger"
	"github.com/walletbook/walletbook/internal/model"
)

// Entry is the budget of one wallet.
type Entry struct {
	Limit   decimal.Decimal `json:"limit"`
	Enabled bool            `json:"enabled"`
}

// Config is the budget configuration shared by all wallets.
//
// An unconfigured wallet reports Enabled == true with a zero Limit. A zero
// limit means no limit is set, not a limit of zero.
type Config struct {
	mu       sync.RWMutex
	entries  map[string]Entry
	startDay int
	queue    kv.Queue
	log      zerolog.Logger
}

// Load reads the persisted budgets and cycle start day.
func Load(ctx context.Context, r kv.Reader, queue kv.Queue, log zerolog.Logger) *Config {
	c := &Config{
		entries:  make(map[string]Entry),
		startDay: cycle.DefaultStartDay,
		queue:    queue,
		log:      logger.Component(log, "budget"),
	}

	raw, ok, err := r.Get(ctx, kv.KeyBudgets)
	switch {
	case err != nil:
		c.log.Error().Err(err).Msg("reading budgets failed")
	case ok:
		var entries map[string]Entry
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			c.log.Warn().Err(err).Msg("malformed budgets, starting empty")
		} else if entries != nil {
			c.entries = entries
		}
	}

	raw, ok, err = r.Get(ctx, kv.KeyCycleStartDay)
	switch {
	case err != nil:
		c.log.Error().Err(err).Msg("reading cycle start day failed")
	case ok:
		day, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || !cycle.ValidStartDay(day) {
			c.log.Warn().Str("value", raw).Msg("invalid cycle start day, using default")
		} else {
			c.startDay = day
		}
	}
	return c
}

// Limit returns the spending limit of a wallet, zero when unset.
func (c *Config) Limit(walletID string) decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[walletID]; ok {
		return e.Limit
	}
	return decimal.Zero
}

// Enabled reports whether the wallet's budget is enabled, true when unset.
func (c *Config) Enabled(walletID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[walletID]; ok {
		return e.Enabled
	}
	return true
}

// Entry returns the effective entry of a wallet, defaults applied.
func (c *Config) Entry(walletID string) Entry {
	return Entry{Limit: c.Limit(walletID), Enabled: c.Enabled(walletID)}
}

// Active returns the limit when it is enabled and positive.
func (c *Config) Active(walletID string) (decimal.Decimal, bool) {
	e := c.Entry(walletID)
	if !e.Enabled || !e.Limit.IsPositive() {
		return decimal.Zero, false
	}
	return e.Limit, true
}

// SetLimit sets a wallet's limit, keeping its enabled flag.
func (c *Config) SetLimit(walletID string, limit decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(walletID)
	e.Limit = limit
	c.entries[walletID] = e
	c.persistEntriesLocked()
}

// SetEnabled toggles a wallet's budget, keeping its limit.
func (c *Config) SetEnabled(walletID string, enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(walletID)
	e.Enabled = enabled
	c.entries[walletID] = e
	c.persistEntriesLocked()
}

// CycleStartDay returns the day of month every cycle starts on.
func (c *Config) CycleStartDay() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.startDay
}

// SetCycleStartDay changes the global cycle start day. Days outside 1..31
// are rejected.
func (c *Config) SetCycleStartDay(day int) error {
	if !cycle.ValidStartDay(day) {
		return &model.ValidationError{Field: "cycleStartDay", Message: fmt.Sprintf("must be between 1 and 31, got %d", day)}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startDay = day
	c.queue.Put(kv.KeyCycleStartDay, strconv.Itoa(day))
	return nil
}

func (c *Config) entryLocked(walletID string) Entry {
	if e, ok := c.entries[walletID]; ok {
		return e
	}
	return Entry{Limit: decimal.Zero, Enabled: true}
}

func (c *Config) persistEntriesLocked() {
	data, err := json.Marshal(c.entries)
	if err != nil {
		c.log.Error().Err(err).Msg("encoding budgets failed")
		return
	}
	c.queue.Put(kv.KeyBudgets, string(data))
}
