package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletbook/walletbook/internal/ledger"
	"github.com/walletbook/walletbook/internal/model"
)

const chaseHeader = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"

func parseFixture(t *testing.T) []model.Transaction {
	t.Helper()
	f, err := os.Open("testdata/chase_checking.csv")
	require.NoError(t, err)
	defer f.Close()

	p := &ChaseParser{Location: time.UTC}
	txs, err := p.Parse(f)
	require.NoError(t, err)
	return txs
}

func TestChaseParser_Parse(t *testing.T) {
	txs := parseFixture(t)
	require.Len(t, txs, 6)

	// First: GITHUB subscription
	first := txs[0]
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", first.Note)
	assert.Equal(t, model.TypeExpense, first.Type)
	assert.Equal(t, "4.00", first.Amount.StringFixed(2))
	assert.Equal(t, "ACH_DEBIT", first.PaymentMethod)
	assert.Equal(t, "Chase", first.Platform)
	assert.Empty(t, first.WalletID)
	assert.Equal(t, time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC), first.Date)

	// Fourth: ACME income
	assert.Equal(t, "ACME CONSULTING INVOICE 1042", txs[3].Note)
	assert.Equal(t, model.TypeIncome, txs[3].Type)
	assert.Equal(t, "3500.00", txs[3].Amount.StringFixed(2))
}

func TestChaseParser_AmountsArePositive(t *testing.T) {
	for _, tx := range parseFixture(t) {
		assert.True(t, tx.Amount.IsPositive(), "amount for %s", tx.Note)
		if tx.Note == "ACME CONSULTING INVOICE 1042" {
			assert.Equal(t, model.TypeIncome, tx.Type)
		} else {
			assert.Equal(t, model.TypeExpense, tx.Type, "type for %s", tx.Note)
		}
	}
}

func TestChaseParser_DefaultLocation(t *testing.T) {
	p := &ChaseParser{}
	txs, err := p.Parse(strings.NewReader(chaseHeader + "DEBIT,01/22/2025,desc,-4.00,ACH_DEBIT,100.00,\n"))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	local := txs[0].Date.In(time.Local)
	assert.Equal(t, 22, local.Day())
	assert.Equal(t, time.January, local.Month())
}

func TestChaseParser_EmptyFile(t *testing.T) {
	p := &ChaseParser{}
	txs, err := p.Parse(strings.NewReader(chaseHeader))
	require.NoError(t, err)
	assert.Nil(t, txs)
}

func TestChaseParser_RowErrors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad date", "DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,", "parsing date"},
		{"bad amount", "DEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,", "parsing amount"},
		{"zero amount", "DEBIT,01/03/2025,desc,0.00,ACH_DEBIT,100.00,", "zero amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ChaseParser{}
			_, err := p.Parse(strings.NewReader(chaseHeader + tt.row + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "row 2")
		})
	}
}

func TestNativeParser_RoundTrip(t *testing.T) {
	in := []model.Transaction{{
		ID:       "t1",
		WalletID: "savings",
		Type:     model.TypeExpense,
		Amount:   decimal.RequireFromString("12.5"),
		Date:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Category: "Food",
	}}
	var buf bytes.Buffer
	require.NoError(t, ledger.WriteCSV(&buf, in))

	out, err := (&NativeParser{}).Parse(&buf)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "savings", out[0].WalletID)
	assert.True(t, in[0].Amount.Equal(out[0].Amount))
}

func TestNativeParser_DateOnlyUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	in := ledger.Header + "\n" + "x,main,expense,10,2024-03-15,,,,,,,\n"

	out, err := (&NativeParser{Location: tokyo}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, out, 1)

	newYork := time.FixedZone("EST", -5*60*60)
	assert.Equal(t, 15, out[0].Date.In(tokyo).Day())
	assert.Equal(t, 12, out[0].Date.In(tokyo).Hour())
	assert.Equal(t, 14, out[0].Date.In(newYork).Day())
}

func TestAssign(t *testing.T) {
	txs := []model.Transaction{{ID: "a"}, {ID: "b", WalletID: "other"}}

	Assign(txs, "main", false)
	assert.Equal(t, "main", txs[0].WalletID)
	assert.Equal(t, "other", txs[1].WalletID)

	Assign(txs, "travel", true)
	assert.Equal(t, "travel", txs[0].WalletID)
	assert.Equal(t, "travel", txs[1].WalletID)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	assert.NotNil(t, r.Get("Chase"))
	assert.NotNil(t, r.Get("CHASE"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	assert.Panics(t, func() { r.Register(&ChaseParser{}) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"chase", "walletbook"}, r.Formats())
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, processedDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, processedDir, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "bank.csv", files[0].Name)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "bank.csv"))

	_, err := os.Stat(filepath.Join(dir, "bank.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, processedDir, "bank.csv"))
	assert.NoError(t, err)
}
