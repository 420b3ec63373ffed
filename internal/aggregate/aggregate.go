// Package aggregate derives totals, balances, breakdowns and trends from a
// snapshot of ledger transactions. Every function is pure: inputs are never
// modified, empty inputs give zero or empty results, nothing panics.
package aggregate

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/walletbook/walletbook/internal/cycle"
	"github.com/walletbook/walletbook/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Totals holds income and expense sums over a set of transactions.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net is income minus expense.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// Of returns the total for one type.
func (t Totals) Of(typ model.TxType) decimal.Decimal {
	if typ == model.TypeIncome {
		return t.Income
	}
	return t.Expense
}

// Engine evaluates date-sensitive aggregations in a fixed location. The zero
// value uses time.Local.
type Engine struct {
	Location *time.Location
}

// New returns an Engine for loc.
func New(loc *time.Location) Engine {
	return Engine{Location: loc}
}

func (e Engine) location() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

func (e Engine) dateOf(tx model.Transaction) civil.Date {
	return cycle.DateOf(tx.Date, e.location())
}

// FilterByRange keeps transactions of walletID whose local calendar date is
// within [start, end]. An empty typeFilter keeps both types.
func (e Engine) FilterByRange(txs []model.Transaction, walletID string, start, end civil.Date, typeFilter model.TxType) []model.Transaction {
	r := cycle.Range{Start: start, End: end}
	var out []model.Transaction
	for _, tx := range txs {
		if tx.WalletID != walletID {
			continue
		}
		if typeFilter != "" && tx.Type != typeFilter {
			continue
		}
		if !r.Contains(e.dateOf(tx)) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// InRange is FilterByRange over a cycle.Range.
func (e Engine) InRange(txs []model.Transaction, walletID string, r cycle.Range, typeFilter model.TxType) []model.Transaction {
	return e.FilterByRange(txs, walletID, r.Start, r.End, typeFilter)
}

// SumByType accumulates amounts into the bucket matching each type.
// Transactions with an unknown type are ignored.
func SumByType(txs []model.Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		switch tx.Type {
		case model.TypeIncome:
			t.Income = t.Income.Add(tx.Amount)
		case model.TypeExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	return t
}

// WalletBalance is income minus expense over every transaction of walletID,
// with no date bound.
func WalletBalance(txs []model.Transaction, walletID string) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		if tx.WalletID != walletID {
			continue
		}
		switch tx.Type {
		case model.TypeIncome:
			balance = balance.Add(tx.Amount)
		case model.TypeExpense:
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance
}

// Percent returns value / total * 100, or 0 when total is not positive.
func Percent(value, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}
	return value.Div(total).Mul(hundred).InexactFloat64()
}

// BudgetUsage is the share of limit already spent, in percent. It is 0 when
// the budget is disabled or no limit is configured. Values above 100 mean
// the budget is exceeded.
func BudgetUsage(cycleExpense, limit decimal.Decimal, enabled bool) float64 {
	if !enabled || !limit.IsPositive() {
		return 0
	}
	return cycleExpense.Div(limit).Mul(hundred).InexactFloat64()
}

// OverBudget reports whether a usage percentage exceeds the limit.
func OverBudget(usage float64) bool {
	return usage > 100
}

// ClampPercent caps a percentage to [0, 100] for progress bars.
func ClampPercent(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

func sortByValueDesc(slices []Slice) {
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Value.GreaterThan(slices[j].Value)
	})
}
