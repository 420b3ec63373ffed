// Package kv is the persisted key-value layer every stateful component
// writes through. Values are opaque strings; callers own the encoding.
package kv

import (
	"context"
	"fmt"
	"path/filepath"
)

// Keys used by the wallet core.
const (
	KeyTransactions     = "transactions"
	KeyWallets          = "wallets"
	KeySelectedWallet   = "selectedWalletId"
	KeyBudgets          = "budgets"
	KeyCycleStartDay    = "cycleStartDay"
	KeyCustomCategories = "customCategories"
)

// Reader reads persisted values. The bool is false when the key is absent.
type Reader interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// Store is a string key-value store that survives process restarts.
type Store interface {
	Reader
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open creates the store for a backend. path is the data directory for the
// file backend and the database file for sqlite; memory ignores it.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "walletbook.db")
		}
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
