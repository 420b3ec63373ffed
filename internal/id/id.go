package id

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator produces unique ids for new wallets, transactions and categories.
type Generator interface {
	NewID() string
}

// UUID generates time-ordered UUIDv7 strings.
type UUID struct{}

// NewID returns a fresh UUIDv7, falling back to a random UUIDv4 if the
// clock-based variant cannot be produced.
func (UUID) NewID() string {
	u, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return u.String()
}

// Timestamp generates millisecond timestamp ids, e.g. "1710495000123". Two
// calls within the same millisecond are disambiguated by bumping the value,
// so ids stay strictly increasing.
type Timestamp struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewTimestamp returns a Timestamp generator reading the given clock. A nil
// clock means time.Now.
func NewTimestamp(now func() time.Time) *Timestamp {
	if now == nil {
		now = time.Now
	}
	return &Timestamp{now: now}
}

// NewID returns the next timestamp id.
func (g *Timestamp) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// ParseTimestamp returns the creation time encoded in a timestamp id.
func ParseTimestamp(id string) (time.Time, bool) {
	ms, err := strconv.ParseInt(id, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// New returns the generator registered under name: "uuid" or "timestamp".
// Unknown names fall back to UUID.
func New(name string) Generator {
	switch name {
	case "timestamp":
		return NewTimestamp(nil)
	default:
		return UUID{}
	}
}
