package id

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID_NewID(t *testing.T) {
	g := UUID{}
	a := g.NewID()
	b := g.NewID()
	assert.NotEqual(t, a, b)

	u, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), u.Version())
}

func TestTimestamp_Monotonic(t *testing.T) {
	fixed := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	g := NewTimestamp(func() time.Time { return fixed })

	assert.Equal(t, "1710504000000", g.NewID())

	prev := int64(1710504000000)
	for i := 0; i < 100; i++ {
		ms, err := strconv.ParseInt(g.NewID(), 10, 64)
		require.NoError(t, err)
		assert.Equal(t, prev+1, ms, "ids within one millisecond must keep increasing")
		prev = ms
	}
}

func TestParseTimestamp(t *testing.T) {
	fixed := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	g := NewTimestamp(func() time.Time { return fixed })

	got, ok := ParseTimestamp(g.NewID())
	require.True(t, ok)
	assert.True(t, fixed.Equal(got))

	tests := []string{"", "abc", "-5", "0"}
	for _, in := range tests {
		_, ok := ParseTimestamp(in)
		assert.False(t, ok, "input %q", in)
	}
}

func TestNew(t *testing.T) {
	assert.IsType(t, UUID{}, New("uuid"))
	assert.IsType(t, &Timestamp{}, New("timestamp"))
	assert.IsType(t, UUID{}, New("unknown"))
}
