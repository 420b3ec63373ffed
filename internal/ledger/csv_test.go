package ledger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletbook/walletbook/internal/model"
)

func TestCSVRoundTrip(t *testing.T) {
	txs := []model.Transaction{
		{
			ID:            "1710504000000",
			WalletID:      "main",
			Type:          model.TypeExpense,
			Amount:        dec("12.50"),
			Date:          time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
			Category:      "Food",
			Platform:      "UberEats",
			PaymentMethod: "Card",
			Note:          "lunch, with team",
			Status:        "completed",
			Icon:          "utensils",
			Color:         "#F97316",
		},
		{
			ID:       "1710504000001",
			WalletID: "savings",
			Type:     model.TypeIncome,
			Amount:   dec("2500"),
			Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txs))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))

	got, err := ReadCSV(&buf, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range txs {
		assert.Equal(t, txs[i].ID, got[i].ID)
		assert.Equal(t, txs[i].WalletID, got[i].WalletID)
		assert.Equal(t, txs[i].Type, got[i].Type)
		assert.True(t, txs[i].Amount.Equal(got[i].Amount))
		assert.True(t, txs[i].Date.Equal(got[i].Date))
		assert.Equal(t, txs[i].Note, got[i].Note)
		assert.Equal(t, txs[i].PaymentMethod, got[i].PaymentMethod)
	}
}

func TestReadCSV_DateOnly(t *testing.T) {
	newYork := time.FixedZone("EST", -5*60*60)
	in := Header + "\n" + "x,main,expense,5,2024-03-15,,,,,,,\n"
	got, err := ReadCSV(strings.NewReader(in), newYork)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.True(t, time.Date(2024, 3, 15, 12, 0, 0, 0, newYork).Equal(got[0].Date))
	assert.Equal(t, 15, got[0].Date.In(newYork).Day())
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bad amount", Header + "\nx,main,expense,abc,2024-03-15,,,,,,,\n"},
		{"bad date", Header + "\nx,main,expense,5,15/03/2024,,,,,,,\n"},
		{"wrong field count", Header + "\nx,main,expense\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(Header + "\n"), time.UTC)
	require.NoError(t, err)
	assert.Nil(t, got)
}
