package importer

import (
	"io"
	"time"

	"github.com/walletbook/walletbook/internal/ledger"
	"github.com/walletbook/walletbook/internal/model"
)

// NativeParser reads the CSV written by `walletbook tx export`.
type NativeParser struct {
	// Location anchors date-only rows; nil means time.Local.
	Location *time.Location
}

// Format returns the parser name.
func (p *NativeParser) Format() string { return "walletbook" }

// Parse reads a walletbook CSV.
func (p *NativeParser) Parse(r io.Reader) ([]model.Transaction, error) {
	return ledger.ReadCSV(r, p.Location)
}
