package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletbook/walletbook/internal/logger"
)

// recordingStore counts writes and can be told to fail.
type recordingStore struct {
	*MemoryStore
	mu     sync.Mutex
	writes int
	fail   bool
}

func (s *recordingStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.writes++
	fail := s.fail
	s.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func TestWriter_PutAndFlush(t *testing.T) {
	store := NewMemoryStore()
	w := NewWriter(store, logger.Nop(), 0)
	defer w.Close()

	w.Put(KeyWallets, "a")
	w.Put(KeySelectedWallet, "main")
	w.Flush()

	got, ok, err := store.Get(context.Background(), KeyWallets)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", got)
	assert.Equal(t, 2, store.Len())
}

func TestWriter_LastWriteWins(t *testing.T) {
	store := NewMemoryStore()
	w := NewWriter(store, logger.Nop(), 0)
	defer w.Close()

	for i := 0; i < 50; i++ {
		w.Put(KeyTransactions, fmt.Sprintf("v%d", i))
	}
	w.Flush()

	got, _, err := store.Get(context.Background(), KeyTransactions)
	require.NoError(t, err)
	assert.Equal(t, "v49", got)
}

func TestWriter_Delete(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), KeyBudgets, "{}"))

	w := NewWriter(store, logger.Nop(), 0)
	w.Delete(KeyBudgets)
	w.Close()

	_, ok, err := store.Get(context.Background(), KeyBudgets)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriter_FailuresAreSwallowed(t *testing.T) {
	store := &recordingStore{MemoryStore: NewMemoryStore(), fail: true}
	w := NewWriter(store, logger.Nop(), 0)

	w.Put(KeyWallets, "lost")
	w.Flush()
	assert.Equal(t, 0, store.Len())

	store.mu.Lock()
	store.fail = false
	store.mu.Unlock()

	w.Put(KeyWallets, "kept")
	w.Close()

	got, _, err := store.Get(context.Background(), KeyWallets)
	require.NoError(t, err)
	assert.Equal(t, "kept", got)
}

func TestWriter_CloseIsIdempotentAndDropsLateWrites(t *testing.T) {
	store := NewMemoryStore()
	w := NewWriter(store, logger.Nop(), 0)
	w.Close()
	w.Close()

	w.Put(KeyWallets, "late")
	assert.Equal(t, 0, store.Len())
}

func TestWriter_ConcurrentPuts(t *testing.T) {
	store := NewMemoryStore()
	w := NewWriter(store, logger.Nop(), 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w.Put(fmt.Sprintf("key-%d", i), "v")
		}(i)
	}
	wg.Wait()
	w.Close()

	assert.Equal(t, 20, store.Len())
}

func TestSyncQueue(t *testing.T) {
	store := NewMemoryStore()
	q := SyncQueue{Store: store, Log: logger.Nop()}

	q.Put(KeyCycleStartDay, "28")
	got, ok, err := store.Get(context.Background(), KeyCycleStartDay)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "28", got)

	q.Delete(KeyCycleStartDay)
	assert.Equal(t, 0, store.Len())
}
