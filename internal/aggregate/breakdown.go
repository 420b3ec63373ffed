package aggregate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/walletbook/walletbook/internal/model"
)

// TopCategories is how many category groups are listed before the rest is
// folded into OthersLabel.
const TopCategories = 4

// Labels for groups with no descriptive field.
const (
	OthersLabel          = "Others"
	IncomeCategoryLabel  = "Source"
	ExpenseCategoryLabel = "Other"
	IncomePlatformLabel  = "Direct"
	ExpensePlatformLabel = "Etc"
)

// Slice is one group of a breakdown.
type Slice struct {
	Name       string
	Value      decimal.Decimal
	Percentage float64
}

// CategoryBreakdown groups by category, largest first. The top four groups
// are kept and the remainder is folded into a single "Others" entry when it
// sums above zero. Percentages are relative to total.
func CategoryBreakdown(txs []model.Transaction, total decimal.Decimal) []Slice {
	slices := group(txs, total, categoryKey)
	if len(slices) <= TopCategories {
		return slices
	}

	rest := decimal.Zero
	for _, s := range slices[TopCategories:] {
		rest = rest.Add(s.Value)
	}
	out := slices[:TopCategories:TopCategories]
	if rest.IsPositive() {
		out = append(out, Slice{Name: OthersLabel, Value: rest, Percentage: Percent(rest, total)})
	}
	return out
}

// PlatformBreakdown groups by platform, falling back to payment method, then
// to a per-type default label. Every group is returned, largest first.
func PlatformBreakdown(txs []model.Transaction, total decimal.Decimal) []Slice {
	return group(txs, total, platformKey)
}

func categoryKey(tx model.Transaction) string {
	if c := strings.TrimSpace(tx.Category); c != "" {
		return c
	}
	if tx.Type == model.TypeIncome {
		return IncomeCategoryLabel
	}
	return ExpenseCategoryLabel
}

func platformKey(tx model.Transaction) string {
	if p := strings.TrimSpace(tx.Platform); p != "" {
		return p
	}
	if p := strings.TrimSpace(tx.PaymentMethod); p != "" {
		return p
	}
	if tx.Type == model.TypeIncome {
		return IncomePlatformLabel
	}
	return ExpensePlatformLabel
}

func group(txs []model.Transaction, total decimal.Decimal, key func(model.Transaction) string) []Slice {
	if len(txs) == 0 {
		return nil
	}

	index := make(map[string]int)
	var slices []Slice
	for _, tx := range txs {
		k := key(tx)
		i, ok := index[k]
		if !ok {
			i = len(slices)
			index[k] = i
			slices = append(slices, Slice{Name: k, Value: decimal.Zero})
		}
		slices[i].Value = slices[i].Value.Add(tx.Amount)
	}

	for i := range slices {
		slices[i].Percentage = Percent(slices[i].Value, total)
	}
	sortByValueDesc(slices)
	return slices
}
