package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walletbook/walletbook/internal/app"
	"github.com/walletbook/walletbook/internal/cycle"
	"github.com/walletbook/walletbook/internal/model"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, &model.ValidationError{Field: "amount", Message: fmt.Sprintf("%q is not a number", s)}
	}
	return d, nil
}

func parseType(s string) (model.TxType, error) {
	t := model.TxType(strings.ToLower(strings.TrimSpace(s)))
	if t != "" && !t.Valid() {
		return "", &model.ValidationError{Field: "type", Message: "type must be expense or income, got " + s}
	}
	return t, nil
}

// parseDay turns a YYYY-MM-DD flag into noon of that day in loc, so the
// calendar date survives small timezone shifts.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	d, err := cycle.ParseDate(s)
	if err != nil {
		return time.Time{}, &model.ValidationError{Field: "date", Message: err.Error()}
	}
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc), nil
}

// resolveRange builds the report range from --from/--to, defaulting to the
// active cycle.
func resolveRange(a *app.App, from, to string) (cycle.Range, error) {
	r := a.CurrentCycle(a.Now())
	if from != "" {
		d, err := cycle.ParseDate(from)
		if err != nil {
			return cycle.Range{}, err
		}
		r.Start = d
	}
	if to != "" {
		d, err := cycle.ParseDate(to)
		if err != nil {
			return cycle.Range{}, err
		}
		r.End = d
	}
	return r, nil
}

// walletOrSelected returns the wallet named by the flag, or the selected one.
func walletOrSelected(a *app.App, walletID string) (model.Wallet, error) {
	if walletID == "" {
		return a.Wallets.Selected(), nil
	}
	w, ok := a.Wallets.Find(walletID)
	if !ok {
		return model.Wallet{}, fmt.Errorf("wallet %s: %w", walletID, app.ErrNotFound)
	}
	return w, nil
}

func optional(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
