package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walletbook/walletbook/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports. Negative amounts
// become expenses, positive ones income.
type ChaseParser struct {
	// Location dates are interpreted in. Nil means time.Local.
	Location *time.Location
}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4

	chasePlatform = "Chase"
	chaseStatus   = "Completed"
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns transactions in file order.
func (p *ChaseParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	loc := p.Location
	if loc == nil {
		loc = time.Local
	}

	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := parseChaseRow(rec, loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseChaseRow(rec []string, loc *time.Location) (model.Transaction, error) {
	date, err := time.ParseInLocation(chaseDateFormat, rec[chaseColDate], loc)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}
	if amount.IsZero() {
		return model.Transaction{}, fmt.Errorf("zero amount for %q", rec[chaseColDesc])
	}

	typ := model.TypeIncome
	if amount.IsNegative() {
		typ = model.TypeExpense
	}

	// Noon keeps the calendar day stable if the timezone is changed later.
	date = date.Add(12 * time.Hour)

	return model.Transaction{
		Type:          typ,
		Amount:        amount.Abs(),
		Date:          date,
		Platform:      chasePlatform,
		PaymentMethod: rec[chaseColType],
		Note:          rec[chaseColDesc],
		Status:        chaseStatus,
	}, nil
}
