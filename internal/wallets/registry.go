// Package wallets owns the wallet list and the current selection.
package wallets

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/walletbook/walletbook/internal/id"
	"github.com/walletbook/walletbook/internal/kv"
	"github.com/walletbook/walletbook/internal/logger"
	"github.com/walletbook/walletbook/internal/model"
)

// Registry holds at least one wallet at all times.
type Registry struct {
	mu       sync.RWMutex
	wallets  []model.Wallet
	selected string
	queue    kv.Queue
	ids      id.Generator
	log      zerolog.Logger
}

// Load reads the persisted wallets and selection. With nothing usable
// persisted it seeds model.DefaultWallet(currency).
func Load(ctx context.Context, r kv.Reader, queue kv.Queue, ids id.Generator, currency string, log zerolog.Logger) *Registry {
	reg := &Registry{
		queue: queue,
		ids:   ids,
		log:   logger.Component(log, "wallets"),
	}

	raw, ok, err := r.Get(ctx, kv.KeyWallets)
	switch {
	case err != nil:
		reg.log.Error().Err(err).Msg("reading wallets failed, using default wallet")
	case ok:
		var ws []model.Wallet
		if err := json.Unmarshal([]byte(raw), &ws); err != nil {
			reg.log.Warn().Err(err).Msg("malformed wallets, using default wallet")
		} else {
			reg.wallets = ws
		}
	}
	if len(reg.wallets) == 0 {
		reg.wallets = []model.Wallet{model.DefaultWallet(currency)}
	}

	sel, ok, err := r.Get(ctx, kv.KeySelectedWallet)
	if err != nil {
		reg.log.Error().Err(err).Msg("reading selected wallet failed")
	} else if ok {
		reg.selected = sel
	}
	return reg
}

// List returns a copy of all wallets in insertion order.
func (r *Registry) List() []model.Wallet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Wallet(nil), r.wallets...)
}

// Find returns the wallet with the given id.
func (r *Registry) Find(walletID string) (model.Wallet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(walletID); i >= 0 {
		return r.wallets[i], true
	}
	return model.Wallet{}, false
}

// Exists reports whether a wallet id is registered.
func (r *Registry) Exists(walletID string) bool {
	_, ok := r.Find(walletID)
	return ok
}

// Selected returns the selected wallet, or the first wallet when the stored
// selection no longer exists.
func (r *Registry) Selected() model.Wallet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(r.selected); i >= 0 {
		return r.wallets[i]
	}
	return r.wallets[0]
}

// Select makes walletID the current wallet. Unknown ids are ignored.
func (r *Registry) Select(walletID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(walletID) < 0 {
		return false
	}
	r.selected = walletID
	r.persistLocked()
	return true
}

// Add appends w, assigning an id when it has none, and selects it.
func (r *Registry) Add(w model.Wallet) model.Wallet {
	if w.ID == "" {
		w.ID = r.ids.NewID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets = append(r.wallets, w)
	r.selected = w.ID
	r.persistLocked()

	r.log.Debug().Str("id", w.ID).Str("name", w.Name).Msg("wallet added")
	return w
}

// Update merges patch into the wallet with the given id.
func (r *Registry) Update(walletID string, patch model.WalletPatch) (model.Wallet, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(walletID)
	if i < 0 {
		return model.Wallet{}, false
	}
	r.wallets[i] = patch.Apply(r.wallets[i])
	r.persistLocked()
	return r.wallets[i], true
}

// Delete removes a wallet. The last wallet can never be deleted. When the
// selected wallet goes away the first remaining one becomes selected.
func (r *Registry) Delete(walletID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.wallets) <= 1 {
		return false
	}
	i := r.indexOf(walletID)
	if i < 0 {
		return false
	}

	wasSelected := r.currentIDLocked() == walletID
	r.wallets = append(r.wallets[:i:i], r.wallets[i+1:]...)
	if wasSelected {
		r.selected = r.wallets[0].ID
	}
	r.persistLocked()

	r.log.Debug().Str("id", walletID).Bool("reselected", wasSelected).Msg("wallet deleted")
	return true
}

// currentIDLocked resolves the effective selection, applying the same
// first-wallet fallback as Selected.
func (r *Registry) currentIDLocked() string {
	if r.indexOf(r.selected) >= 0 {
		return r.selected
	}
	return r.wallets[0].ID
}

func (r *Registry) indexOf(walletID string) int {
	for i, w := range r.wallets {
		if w.ID == walletID {
			return i
		}
	}
	return -1
}

func (r *Registry) persistLocked() {
	data, err := json.Marshal(r.wallets)
	if err != nil {
		r.log.Error().Err(err).Msg("encoding wallets failed")
		return
	}
	r.queue.Put(kv.KeyWallets, string(data))
	r.queue.Put(kv.KeySelectedWallet, r.selected)
}
