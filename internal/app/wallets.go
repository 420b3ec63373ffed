package app

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/walletbook/walletbook/internal/currency"
	"github.com/walletbook/walletbook/internal/model"
)

// AddWallet validates and registers a wallet, which becomes selected.
func (a *App) AddWallet(w model.Wallet) (model.Wallet, error) {
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		return model.Wallet{}, &model.ValidationError{Field: "name", Message: "wallet name is required"}
	}
	if w.Currency == "" {
		w.Currency = a.Formatter.Fallback
	}
	if err := checkCurrency(w.Currency); err != nil {
		return model.Wallet{}, err
	}
	if w.ID != "" && a.Wallets.Exists(w.ID) {
		return model.Wallet{}, &model.ValidationError{Field: "id", Message: "wallet " + w.ID + " already exists"}
	}
	return a.Wallets.Add(w), nil
}

// UpdateWallet merges patch over an existing wallet.
func (a *App) UpdateWallet(walletID string, patch model.WalletPatch) (model.Wallet, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return model.Wallet{}, &model.ValidationError{Field: "name", Message: "wallet name is required"}
	}
	if patch.Currency != nil {
		if err := checkCurrency(*patch.Currency); err != nil {
			return model.Wallet{}, err
		}
	}
	w, ok := a.Wallets.Update(walletID, patch)
	if !ok {
		return model.Wallet{}, fmt.Errorf("wallet %s: %w", walletID, ErrNotFound)
	}
	return w, nil
}

// DeleteWallet removes a wallet. Its transactions and budget stay stored.
func (a *App) DeleteWallet(walletID string) error {
	if !a.Wallets.Exists(walletID) {
		return fmt.Errorf("wallet %s: %w", walletID, ErrNotFound)
	}
	if !a.Wallets.Delete(walletID) {
		return ErrLastWallet
	}
	return nil
}

// SelectWallet makes walletID the current wallet.
func (a *App) SelectWallet(walletID string) error {
	if !a.Wallets.Select(walletID) {
		return fmt.Errorf("wallet %s: %w", walletID, ErrNotFound)
	}
	return nil
}

// SetBudgetLimit sets a wallet's spending limit. Zero clears it.
func (a *App) SetBudgetLimit(walletID string, limit decimal.Decimal) error {
	if !a.Wallets.Exists(walletID) {
		return fmt.Errorf("wallet %s: %w", walletID, ErrNotFound)
	}
	if limit.IsNegative() {
		return &model.ValidationError{Field: "limit", Message: "limit cannot be negative, got " + limit.String()}
	}
	a.Budget.SetLimit(walletID, limit)
	return nil
}

// SetBudgetEnabled toggles a wallet's budget.
func (a *App) SetBudgetEnabled(walletID string, enabled bool) error {
	if !a.Wallets.Exists(walletID) {
		return fmt.Errorf("wallet %s: %w", walletID, ErrNotFound)
	}
	a.Budget.SetEnabled(walletID, enabled)
	return nil
}

func checkCurrency(code string) error {
	if !currency.Valid(code) {
		return &model.ValidationError{Field: "currency", Message: "unknown currency code " + code}
	}
	return nil
}
