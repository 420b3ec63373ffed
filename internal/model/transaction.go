package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Persisted amounts and limits are JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// TxType is the direction of a transaction. It decides the sign in every
// aggregation: income adds, expense subtracts.
type TxType string

const (
	TypeExpense TxType = "expense"
	TypeIncome  TxType = "income"
)

// Valid reports whether t is one of the known transaction types.
func (t TxType) Valid() bool {
	return t == TypeExpense || t == TypeIncome
}

// MainWalletID is the wallet every legacy transaction without a wallet
// reference belongs to. The seeded default wallet uses the same id.
const MainWalletID = "main"

// Transaction is one financial event in the ledger.
type Transaction struct {
	ID            string          `json:"id"`
	WalletID      string          `json:"walletId,omitempty"`
	Type          TxType          `json:"type"`
	Amount        decimal.Decimal `json:"amount"` // magnitude; sign comes from Type
	Date          time.Time       `json:"date"`
	Category      string          `json:"category,omitempty"`
	Platform      string          `json:"platform,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Note          string          `json:"note,omitempty"`
	Status        string          `json:"status,omitempty"`
	Icon          string          `json:"icon,omitempty"`
	Color         string          `json:"color,omitempty"`
}

// Signed returns the amount with the sign implied by the type.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Validate checks the fields the aggregation engine relies on.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.WalletID) == "" {
		return &ValidationError{Field: "walletId", Message: "wallet is required"}
	}
	if !t.Type.Valid() {
		return &ValidationError{Field: "type", Message: "type must be expense or income, got " + quote(string(t.Type))}
	}
	if !t.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "amount must be greater than zero, got " + t.Amount.String()}
	}
	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	return nil
}

// UnmarshalJSON accepts RFC 3339 timestamps and bare YYYY-MM-DD dates for
// the date field. Bare dates are read as noon UTC.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type plain Transaction
	aux := struct {
		*plain
		Date *string `json:"date"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Date == nil || *aux.Date == "" {
		t.Date = time.Time{}
		return nil
	}
	date, err := ParseDate(*aux.Date, time.UTC)
	if err != nil {
		return err
	}
	t.Date = date
	return nil
}

// ParseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates. A bare
// date is placed at noon in loc so converting it to any nearby zone keeps
// the calendar day.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d.Add(12 * time.Hour), nil
}

// TransactionPatch is a partial update. Nil fields are left untouched.
type TransactionPatch struct {
	WalletID      *string
	Type          *TxType
	Amount        *decimal.Decimal
	Date          *time.Time
	Category      *string
	Platform      *string
	PaymentMethod *string
	Note          *string
	Status        *string
	Icon          *string
	Color         *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TransactionPatch) IsEmpty() bool {
	return p == TransactionPatch{}
}

// Apply merges the patch over tx and returns the result. The id never changes.
func (p TransactionPatch) Apply(tx Transaction) Transaction {
	setString(&tx.WalletID, p.WalletID)
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	setString(&tx.Category, p.Category)
	setString(&tx.Platform, p.Platform)
	setString(&tx.PaymentMethod, p.PaymentMethod)
	setString(&tx.Note, p.Note)
	setString(&tx.Status, p.Status)
	setString(&tx.Icon, p.Icon)
	setString(&tx.Color, p.Color)
	return tx
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func quote(s string) string {
	return `"` + s + `"`
}
