// Package ledger owns the collection of transactions.
//
// The ledger trusts its caller: amounts, types and dates are stored as given.
// Validation happens one layer up, before Add and Update are called.
package ledger

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

// Ledger holds transactions newest-first by insertion order.
type Ledger struct {
	mu    sync.RWMutex
	txs   []model.Transaction
	queue kv.Queue
	ids   id.Generator
	log   zerolog.Logger
}

// New creates a ledger over an existing list, newest first.
func New(txs []model.Transaction, queue kv.Queue, ids id.Generator, log zerolog.Logger) *Ledger {
	return &Ledger{
		txs:   append([]model.Transaction(nil), txs...),
		queue: queue,
		ids:   ids,
		log:   logger.Component(log, "ledger"),
	}
}

// Load reads the persisted list. Missing or malformed data yields an empty
// ledger; read failures are logged, never returned.
func Load(ctx context.Context, r kv.Reader, queue kv.Queue, ids id.Generator, log zerolog.Logger) *Ledger {
	l := New(nil, queue, ids, log)

	raw, ok, err := r.Get(ctx, kv.KeyTransactions)
	if err != nil {
		l.log.Error().Err(err).Msg("reading transactions failed, starting empty")
		return l
	}
	if !ok {
		return l
	}

	var txs []model.Transaction
	if err := json.Unmarshal([]byte(raw), &txs); err != nil {
		l.log.Warn().Err(err).Msg("malformed transactions, starting empty")
		return l
	}

	migrated := Migrate(txs)
	if migrated > 0 {
		l.log.Info().Int("count", migrated).Str("wallet", model.MainWalletID).Msg("assigned legacy transactions to default wallet")
	}
	l.txs = txs
	return l
}

// Migrate assigns MainWalletID to every transaction without a wallet and
// returns how many were changed. The result is not persisted until the next
// write.
func Migrate(txs []model.Transaction) int {
	n := 0
	for i := range txs {
		if txs[i].WalletID == "" {
			txs[i].WalletID = model.MainWalletID
			n++
		}
	}
	return n
}

// List returns a copy of all transactions, newest first.
func (l *Ledger) List() []model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]model.Transaction(nil), l.txs...)
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.txs)
}

// Find returns the transaction with the given id.
func (l *Ledger) Find(txID string) (model.Transaction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexOf(txID); i >= 0 {
		return l.txs[i], true
	}
	return model.Transaction{}, false
}

// ByWallet returns the transactions of one wallet, newest first.
func (l *Ledger) ByWallet(walletID string) []model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []model.Transaction
	for _, tx := range l.txs {
		if tx.WalletID == walletID {
			out = append(out, tx)
		}
	}
	return out
}

// Add prepends tx, assigning an id when it has none, and returns it.
func (l *Ledger) Add(tx model.Transaction) model.Transaction {
	if tx.ID == "" {
		tx.ID = l.ids.NewID()
	}

	l.mu.Lock()
	l.txs = append([]model.Transaction{tx}, l.txs...)
	l.persistLocked()
	l.mu.Unlock()

	l.log.Debug().Str("id", tx.ID).Str("wallet", tx.WalletID).Str("type", string(tx.Type)).Msg("transaction added")
	return tx
}

// Update merges patch into the transaction with the given id. It returns
// false, changing nothing, when the id is unknown.
func (l *Ledger) Update(txID string, patch model.TransactionPatch) (model.Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(txID)
	if i < 0 {
		return model.Transaction{}, false
	}
	l.txs[i] = patch.Apply(l.txs[i])
	l.persistLocked()
	return l.txs[i], true
}

// Delete removes the transaction with the given id and reports whether it
// existed.
func (l *Ledger) Delete(txID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(txID)
	if i < 0 {
		return false
	}
	l.txs = append(l.txs[:i:i], l.txs[i+1:]...)
	l.persistLocked()
	return true
}

func (l *Ledger) indexOf(txID string) int {
	for i, tx := range l.txs {
		if tx.ID == txID {
			return i
		}
	}
	return -1
}

func (l *Ledger) persistLocked() {
	data, err := json.Marshal(l.txs)
	if err != nil {
		l.log.Error().Err(err).Msg("encoding transactions failed")
		return
	}
	l.queue.Put(kv.KeyTransactions, string(data))
}
