// Package categories provides the category picker's data: built-in defaults
// plus user-defined categories persisted in the key-value store.
package categories

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/walletbook/walletbook/internal/id"
	"github.com/walletbook/walletbook/internal/kv"
	"github.com/walletbook/walletbook/internal/logger"
	"github.com/walletbook/walletbook/internal/model"
)

// Item is one selectable category.
type Item struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Type   model.TxType `json:"type"`
	Icon   string       `json:"icon,omitempty"`
	Color  string       `json:"color,omitempty"`
	Custom bool         `json:"custom,omitempty"`
}

// Catalog merges defaults with custom categories. Only custom ones are
// persisted.
type Catalog struct {
	mu     sync.RWMutex
	custom []Item
	queue  kv.Queue
	ids    id.Generator
	log    zerolog.Logger
}

// Load reads the custom categories.
func Load(ctx context.Context, r kv.Reader, queue kv.Queue, ids id.Generator, log zerolog.Logger) *Catalog {
	c := &Catalog{
		queue: queue,
		ids:   ids,
		log:   logger.Component(log, "categories"),
	}

	raw, ok, err := r.Get(ctx, kv.KeyCustomCategories)
	switch {
	case err != nil:
		c.log.Error().Err(err).Msg("reading custom categories failed")
	case ok:
		var items []Item
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			c.log.Warn().Err(err).Msg("malformed custom categories, ignoring")
		} else {
			c.custom = items
		}
	}
	return c
}

// All returns defaults followed by custom categories.
func (c *Catalog) All() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(Defaults(""), c.custom...)
}

// ByType returns the categories offered for one transaction type.
func (c *Catalog) ByType(typ model.TxType) []Item {
	var out []Item
	for _, item := range c.All() {
		if item.Type == typ {
			out = append(out, item)
		}
	}
	return out
}

// Get finds a category by id.
func (c *Catalog) Get(itemID string) (Item, bool) {
	for _, item := range c.All() {
		if item.ID == itemID {
			return item, true
		}
	}
	return Item{}, false
}

// Exists reports whether a category with this name exists for typ,
// ignoring case.
func (c *Catalog) Exists(typ model.TxType, name string) bool {
	for _, item := range c.ByType(typ) {
		if strings.EqualFold(item.Name, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// Add stores a custom category. Names must be non-empty and unique per type.
func (c *Catalog) Add(item Item) (Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return Item{}, &model.ValidationError{Field: "name", Message: "category name is required"}
	}
	if !item.Type.Valid() {
		return Item{}, &model.ValidationError{Field: "type", Message: "category type must be expense or income"}
	}
	if c.Exists(item.Type, item.Name) {
		return Item{}, &model.ValidationError{Field: "name", Message: "category " + item.Name + " already exists"}
	}
	if item.ID == "" {
		item.ID = c.ids.NewID()
	}
	item.Custom = true

	c.mu.Lock()
	defer c.mu.Unlock()
	c.custom = append(c.custom, item)
	c.persistLocked()
	return item, nil
}

// Remove deletes a custom category. Built-in categories cannot be removed.
func (c *Catalog) Remove(itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.custom {
		if item.ID == itemID {
			c.custom = append(c.custom[:i:i], c.custom[i+1:]...)
			c.persistLocked()
			return true
		}
	}
	return false
}

func (c *Catalog) persistLocked() {
	data, err := json.Marshal(c.custom)
	if err != nil {
		c.log.Error().Err(err).Msg("encoding custom categories failed")
		return
	}
	c.queue.Put(kv.KeyCustomCategories, string(data))
}
