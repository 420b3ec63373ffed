package model

// Wallet is a named bucket of transactions. Its balance is always derived
// from the ledger and never stored here.
type Wallet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"` // free-form label, e.g. "Primary", "Savings"
	Currency   string `json:"currency,omitempty"`
	Color      string `json:"color,omitempty"`
	ThemeColor string `json:"themeColor,omitempty"`
	Icon       string `json:"icon,omitempty"`
	CardNumber string `json:"cardNumber,omitempty"` // display only
}

// DefaultWallet returns the wallet seeded when nothing has been persisted.
func DefaultWallet(currency string) Wallet {
	return Wallet{
		ID:         MainWalletID,
		Name:       "Primary Wallet",
		Type:       "Primary",
		Currency:   currency,
		Color:      "#1E293B",
		ThemeColor: "#3B82F6",
		Icon:       "wallet",
	}
}

// WalletPatch is a partial update for a wallet.
type WalletPatch struct {
	Name       *string
	Type       *string
	Currency   *string
	Color      *string
	ThemeColor *string
	Icon       *string
	CardNumber *string
}

// Apply merges the patch over w. The id never changes.
func (p WalletPatch) Apply(w Wallet) Wallet {
	setString(&w.Name, p.Name)
	setString(&w.Type, p.Type)
	setString(&w.Currency, p.Currency)
	setString(&w.Color, p.Color)
	setString(&w.ThemeColor, p.ThemeColor)
	setString(&w.Icon, p.Icon)
	setString(&w.CardNumber, p.CardNumber)
	return w
}
