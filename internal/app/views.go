package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walletbook/walletbook/internal/aggregate"
	"github.com/walletbook/walletbook/internal/charts"
	"github.com/walletbook/walletbook/internal/cycle"
	"github.com/walletbook/walletbook/internal/model"
)

// RecentLimit is how many transactions the dashboard lists.
const RecentLimit = 5

// Dashboard is the summary of one wallet for the current cycle.
type Dashboard struct {
	Wallet     model.Wallet
	Balance    decimal.Decimal // all time
	Cycle      cycle.Range
	Totals     aggregate.Totals // within Cycle
	Limit      decimal.Decimal
	Enabled    bool
	Usage      float64 // percent of Limit spent, 0 when no active budget
	OverBudget bool
	Recent     []model.Transaction
}

// Dashboard builds the dashboard of walletID as of now.
func (a *App) Dashboard(walletID string, now time.Time) (Dashboard, error) {
	w, ok := a.Wallets.Find(walletID)
	if !ok {
		return Dashboard{}, fmt.Errorf("wallet %s: %w", walletID, ErrNotFound)
	}

	txs := a.Ledger.List()
	r := cycle.Current(a.Budget.CycleStartDay(), now, a.Engine.Location)
	totals := aggregate.SumByType(a.Engine.InRange(txs, walletID, r, ""))
	entry := a.Budget.Entry(walletID)
	usage := aggregate.BudgetUsage(totals.Expense, entry.Limit, entry.Enabled)

	recent := a.Ledger.ByWallet(walletID)
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}

	return Dashboard{
		Wallet:     w,
		Balance:    aggregate.WalletBalance(txs, walletID),
		Cycle:      r,
		Totals:     totals,
		Limit:      entry.Limit,
		Enabled:    entry.Enabled,
		Usage:      usage,
		OverBudget: aggregate.OverBudget(usage),
		Recent:     recent,
	}, nil
}

// Stats is the breakdown of one transaction type over a date range.
type Stats struct {
	Wallet       model.Wallet
	Range        cycle.Range
	Type         model.TxType
	Totals       aggregate.Totals // both types within Range
	Total        decimal.Decimal  // total of Type within Range
	Categories   []aggregate.Slice
	Platforms    []aggregate.Slice
	Trend        []aggregate.TrendPoint
	Transactions []model.Transaction // of Type within Range, newest first
}

// Stats builds the statistics of walletID over r. An empty typ means
// expense.
func (a *App) Stats(walletID string, r cycle.Range, typ model.TxType) (Stats, error) {
	w, ok := a.Wallets.Find(walletID)
	if !ok {
		return Stats{}, fmt.Errorf("wallet %s: %w", walletID, ErrNotFound)
	}
	if typ == "" {
		typ = model.TypeExpense
	}
	if !typ.Valid() {
		return Stats{}, &model.ValidationError{Field: "type", Message: "type must be expense or income, got " + string(typ)}
	}
	if r.End.Before(r.Start) {
		return Stats{}, &model.ValidationError{Field: "range", Message: "end " + r.End.String() + " is before start " + r.Start.String()}
	}

	txs := a.Ledger.List()
	totals := aggregate.SumByType(a.Engine.InRange(txs, walletID, r, ""))
	filtered := a.Engine.InRange(txs, walletID, r, typ)
	total := totals.Of(typ)

	return Stats{
		Wallet:       w,
		Range:        r,
		Type:         typ,
		Totals:       totals,
		Total:        total,
		Categories:   aggregate.CategoryBreakdown(filtered, total),
		Platforms:    aggregate.PlatformBreakdown(filtered, total),
		Trend:        a.Engine.WeeklyTrend(a.Ledger.ByWallet(walletID), r.End, typ),
		Transactions: filtered,
	}, nil
}

// CurrentCycle returns the active cycle as of now.
func (a *App) CurrentCycle(now time.Time) cycle.Range {
	return cycle.Current(a.Budget.CycleStartDay(), now, a.Engine.Location)
}

// Charts renders the category pie and trend bars of s, formatted in the
// wallet's currency.
func (a *App) Charts(ctx context.Context, s Stats) (charts.Images, error) {
	code := s.Wallet.Currency
	g := charts.NewGenerator(func(d decimal.Decimal) string { return a.Formatter.Format(d, code) })
	title := "Income"
	if s.Type == model.TypeExpense {
		title = "Expenses"
	}
	return g.RenderAll(ctx, charts.Report{
		Title:      title,
		Categories: s.Categories,
		Trend:      s.Trend,
	})
}

// Money formats an amount in a wallet's currency.
func (a *App) Money(w model.Wallet, amount decimal.Decimal) string {
	return a.Formatter.Format(amount, w.Currency)
}
