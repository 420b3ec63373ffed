package app

import (
	"fmt"
	"io"

	"github.com/walletbook/walletbook/internal/importer"
	"github.com/walletbook/walletbook/internal/ledger"
	"github.com/walletbook/walletbook/internal/model"
)

// AddTransaction validates tx and prepends it to the ledger. An empty
// wallet id means the selected wallet.
func (a *App) AddTransaction(tx model.Transaction) (model.Transaction, error) {
	if tx.WalletID == "" {
		tx.WalletID = a.Wallets.Selected().ID
	}
	if err := a.checkTransaction(tx); err != nil {
		return model.Transaction{}, err
	}
	return a.Ledger.Add(tx), nil
}

// UpdateTransaction merges patch over the stored transaction. The merged
// result must still be valid.
func (a *App) UpdateTransaction(txID string, patch model.TransactionPatch) (model.Transaction, error) {
	existing, ok := a.Ledger.Find(txID)
	if !ok {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", txID, ErrNotFound)
	}
	if err := a.checkTransaction(patch.Apply(existing)); err != nil {
		return model.Transaction{}, err
	}
	updated, ok := a.Ledger.Update(txID, patch)
	if !ok {
		return model.Transaction{}, fmt.Errorf("transaction %s: %w", txID, ErrNotFound)
	}
	return updated, nil
}

// DeleteTransaction removes a transaction.
func (a *App) DeleteTransaction(txID string) error {
	if !a.Ledger.Delete(txID) {
		return fmt.Errorf("transaction %s: %w", txID, ErrNotFound)
	}
	return nil
}

func (a *App) checkTransaction(tx model.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if !a.Wallets.Exists(tx.WalletID) {
		return &model.ValidationError{Field: "walletId", Message: "unknown wallet " + tx.WalletID}
	}
	return nil
}

// ImportResult summarises an import.
type ImportResult struct {
	Added   int
	Skipped int
}

// Import parses r with the named format and adds every valid transaction to
// walletID. Rows failing validation are skipped and counted. For the native
// format the ids in the file are kept unless they collide.
func (a *App) Import(format string, r io.Reader, walletID string) (ImportResult, error) {
	var res ImportResult
	p := a.Importers.Get(format)
	if p == nil {
		return res, fmt.Errorf("unknown import format %q", format)
	}
	if walletID == "" {
		walletID = a.Wallets.Selected().ID
	}
	if !a.Wallets.Exists(walletID) {
		return res, fmt.Errorf("wallet %s: %w", walletID, ErrNotFound)
	}

	txs, err := p.Parse(r)
	if err != nil {
		return res, fmt.Errorf("parsing %s import: %w", p.Format(), err)
	}
	importer.Assign(txs, walletID, true)

	// Files list oldest first and Add prepends, so the ledger stays newest first.
	for _, tx := range txs {
		if _, exists := a.Ledger.Find(tx.ID); tx.ID != "" && exists {
			tx.ID = ""
		}
		if err := a.checkTransaction(tx); err != nil {
			a.log.Warn().Err(err).Str("format", p.Format()).Msg("skipping import row")
			res.Skipped++
			continue
		}
		a.Ledger.Add(tx)
		res.Added++
	}
	a.log.Info().Str("format", p.Format()).Str("wallet", walletID).Int("added", res.Added).Int("skipped", res.Skipped).Msg("import finished")
	return res, nil
}

// Export writes the transactions of walletID, or every transaction when
// walletID is empty, in the native CSV format.
func (a *App) Export(w io.Writer, walletID string) error {
	txs := a.Ledger.List()
	if walletID != "" {
		txs = a.Ledger.ByWallet(walletID)
	}
	return ledger.WriteCSV(w, txs)
}
