package categories

import "github.com/walletbook/walletbook/internal/model"

// Defaults returns the built-in categories for a transaction type. An empty
// type returns both sets, expense first.
func Defaults(typ model.TxType) []Item {
	switch typ {
	case model.TypeExpense:
		return expenseDefaults()
	case model.TypeIncome:
		return incomeDefaults()
	default:
		return append(expenseDefaults(), incomeDefaults()...)
	}
}

func expenseDefaults() []Item {
	return []Item{
		{ID: "food", Name: "Food", Type: model.TypeExpense, Icon: "utensils", Color: "#F97316"},
		{ID: "transport", Name: "Transport", Type: model.TypeExpense, Icon: "car", Color: "#3B82F6"},
		{ID: "shopping", Name: "Shopping", Type: model.TypeExpense, Icon: "shopping-bag", Color: "#EC4899"},
		{ID: "bills", Name: "Bills", Type: model.TypeExpense, Icon: "receipt", Color: "#EF4444"},
		{ID: "entertainment", Name: "Entertainment", Type: model.TypeExpense, Icon: "film", Color: "#8B5CF6"},
		{ID: "health", Name: "Health", Type: model.TypeExpense, Icon: "heart-pulse", Color: "#10B981"},
		{ID: "education", Name: "Education", Type: model.TypeExpense, Icon: "book", Color: "#6366F1"},
		{ID: "other", Name: "Other", Type: model.TypeExpense, Icon: "ellipsis", Color: "#64748B"},
	}
}

func incomeDefaults() []Item {
	return []Item{
		{ID: "salary", Name: "Salary", Type: model.TypeIncome, Icon: "briefcase", Color: "#22C55E"},
		{ID: "freelance", Name: "Freelance", Type: model.TypeIncome, Icon: "laptop", Color: "#14B8A6"},
		{ID: "investment", Name: "Investment", Type: model.TypeIncome, Icon: "trending-up", Color: "#0EA5E9"},
		{ID: "gift", Name: "Gift", Type: model.TypeIncome, Icon: "gift", Color: "#F59E0B"},
	}
}
