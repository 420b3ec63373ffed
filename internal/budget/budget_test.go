package budget

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletbook/walletbook/internal/kv"
	"github.com/walletbook/walletbook/internal/logger"
	"github.com/walletbook/walletbook/internal/model"
)

func load(store *kv.MemoryStore) *Config {
	return Load(context.Background(), store, kv.SyncQueue{Store: store, Log: logger.Nop()}, logger.Nop())
}

func TestDefaults_UnconfiguredWallet(t *testing.T) {
	c := load(kv.NewMemoryStore())

	assert.True(t, c.Enabled("never-configured"), "absent config defaults to enabled")
	assert.True(t, c.Limit("never-configured").IsZero(), "but with no limit")

	_, active := c.Active("never-configured")
	assert.False(t, active, "enabled with zero limit means no limit set")
	assert.Equal(t, 28, c.CycleStartDay())
}

func TestSetLimitAndEnabled_AreIndependent(t *testing.T) {
	store := kv.NewMemoryStore()
	c := load(store)

	c.SetLimit("main", decimal.NewFromInt(500))
	assert.True(t, c.Enabled("main"), "setting a limit keeps the default enabled flag")

	limit, active := c.Active("main")
	assert.True(t, active)
	assert.Equal(t, "500", limit.String())

	c.SetEnabled("main", false)
	assert.Equal(t, "500", c.Limit("main").String(), "disabling keeps the limit")
	_, active = c.Active("main")
	assert.False(t, active)

	raw, ok, err := store.Get(context.Background(), kv.KeyBudgets)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"main":{"limit":500,"enabled":false}}`, raw)

	var entries map[string]Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))
	assert.False(t, entries["main"].Enabled)
	assert.Equal(t, "500", entries["main"].Limit.String())
}

func TestSetEnabled_OnUnconfiguredWallet(t *testing.T) {
	c := load(kv.NewMemoryStore())
	c.SetEnabled("w", false)
	assert.False(t, c.Enabled("w"))
	assert.True(t, c.Limit("w").IsZero())
}

func TestCycleStartDay(t *testing.T) {
	store := kv.NewMemoryStore()
	c := load(store)

	require.NoError(t, c.SetCycleStartDay(15))
	assert.Equal(t, 15, c.CycleStartDay())

	raw, _, err := store.Get(context.Background(), kv.KeyCycleStartDay)
	require.NoError(t, err)
	assert.Equal(t, "15", raw, "stored as a plain string")

	for _, bad := range []int{0, 32, -1} {
		err := c.SetCycleStartDay(bad)
		var verr *model.ValidationError
		require.True(t, errors.As(err, &verr), "day %d", bad)
	}
	assert.Equal(t, 15, c.CycleStartDay())
}

func TestLoad_Persisted(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, kv.KeyBudgets, `{"main":{"limit":750,"enabled":true},"trip":{"limit":"0","enabled":false}}`))
	require.NoError(t, store.Set(ctx, kv.KeyCycleStartDay, "5"))

	c := load(store)
	assert.Equal(t, "750", c.Limit("main").String())
	assert.False(t, c.Enabled("trip"))
	assert.Equal(t, 5, c.CycleStartDay())
}

func TestLoad_MalformedFallsBack(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, kv.KeyBudgets, `[1,2`))
	require.NoError(t, store.Set(ctx, kv.KeyCycleStartDay, "forty"))

	c := load(store)
	assert.True(t, c.Limit("main").IsZero())
	assert.Equal(t, 28, c.CycleStartDay())
}

func TestLoad_OutOfRangeDayFallsBack(t *testing.T) {
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), kv.KeyCycleStartDay, "45"))
	assert.Equal(t, 28, load(store).CycleStartDay())
}
