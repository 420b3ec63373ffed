package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walletbook/walletbook/internal/model"
)

// Header is the CSV header of a ledger export.
const Header = "id,wallet_id,type,amount,date,category,platform,payment_method,note,status,icon,color"

const (
	numFields    = 12
	colID        = 0
	colWallet    = 1
	colType      = 2
	colAmount    = 3
	colDate      = 4
	colCategory  = 5
	colPlatform  = 6
	colPayMethod = 7
	colNote      = 8
	colStatus    = 9
	colIcon      = 10
	colColor     = 11
)

// ReadCSV reads transactions from an export, header included. Bare
// YYYY-MM-DD dates are placed at noon in loc.
func ReadCSV(r io.Reader, loc *time.Location) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalRow(rec, loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteCSV writes transactions with a header row.
func WriteCSV(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalRow(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a transaction to a CSV row.
func MarshalRow(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = tx.ID
	row[colWallet] = tx.WalletID
	row[colType] = string(tx.Type)
	row[colAmount] = tx.Amount.String()
	if !tx.Date.IsZero() {
		row[colDate] = tx.Date.Format(time.RFC3339)
	}
	row[colCategory] = tx.Category
	row[colPlatform] = tx.Platform
	row[colPayMethod] = tx.PaymentMethod
	row[colNote] = tx.Note
	row[colStatus] = tx.Status
	row[colIcon] = tx.Icon
	row[colColor] = tx.Color
	return row
}

// UnmarshalRow converts a CSV row to a transaction.
func UnmarshalRow(record []string, loc *time.Location) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var date time.Time
	if record[colDate] != "" {
		date, err = model.ParseDate(record[colDate], loc)
		if err != nil {
			return model.Transaction{}, err
		}
	}

	return model.Transaction{
		ID:            record[colID],
		WalletID:      record[colWallet],
		Type:          model.TxType(record[colType]),
		Amount:        amount,
		Date:          date,
		Category:      record[colCategory],
		Platform:      record[colPlatform],
		PaymentMethod: record[colPayMethod],
		Note:          record[colNote],
		Status:        record[colStatus],
		Icon:          record[colIcon],
		Color:         record[colColor],
	}, nil
}
