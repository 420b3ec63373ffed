package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/walletbook/walletbook/internal/app"
	"github.com/walletbook/walletbook/internal/importer"
	"github.com/walletbook/walletbook/internal/model"
)

func newTxCommand(root *rootOptions) *cobra.Command {
	txCmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transaction"},
		Short:   "Record and manage transactions",
	}
	txCmd.AddCommand(
		newTxListCommand(root),
		newTxAddCommand(root),
		newTxEditCommand(root),
		newTxDeleteCommand(root),
		newTxImportCommand(root),
		newTxExportCommand(root),
	)
	return txCmd
}

func newTxListCommand(root *rootOptions) *cobra.Command {
	var walletID, from, to, typ string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions of a wallet, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				w, err := walletOrSelected(a, walletID)
				if err != nil {
					return err
				}
				filter, err := parseType(typ)
				if err != nil {
					return err
				}

				txs := a.Ledger.ByWallet(w.ID)
				if from != "" || to != "" {
					r, err := resolveRange(a, from, to)
					if err != nil {
						return err
					}
					txs = a.Engine.InRange(txs, w.ID, r, filter)
				} else if filter != "" {
					var kept []model.Transaction
					for _, tx := range txs {
						if tx.Type == filter {
							kept = append(kept, tx)
						}
					}
					txs = kept
				}
				if limit > 0 && len(txs) > limit {
					txs = txs[:limit]
				}

				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tDATE\tTYPE\tAMOUNT\tCATEGORY\tPLATFORM\tNOTE")
				for _, tx := range txs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						tx.ID,
						tx.Date.In(a.Engine.Location).Format(dateLayout),
						tx.Type,
						a.Money(w, tx.Signed()),
						optional(tx.Category),
						optional(tx.Platform),
						tx.Note,
					)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&walletID, "wallet", "", "wallet id (default: selected)")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&typ, "type", "", "expense or income")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (0 for all)")
	return cmd
}

// txFlags binds the editable transaction fields.
type txFlags struct {
	walletID      string
	typ           string
	amount        string
	date          string
	category      string
	platform      string
	paymentMethod string
	note          string
	status        string
	icon          string
	color         string
}

func (f *txFlags) bind(cmd *cobra.Command, withAmount bool) {
	cmd.Flags().StringVar(&f.walletID, "wallet", "", "wallet id (default: selected)")
	cmd.Flags().StringVar(&f.typ, "type", string(model.TypeExpense), "expense or income")
	if withAmount {
		cmd.Flags().StringVar(&f.amount, "amount", "", "amount, always positive")
	}
	cmd.Flags().StringVar(&f.date, "date", "", "day, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&f.category, "category", "", "category name")
	cmd.Flags().StringVar(&f.platform, "platform", "", "merchant or source, e.g. Amazon")
	cmd.Flags().StringVar(&f.paymentMethod, "method", "", "payment method, e.g. Card")
	cmd.Flags().StringVar(&f.note, "note", "", "free-form note")
	cmd.Flags().StringVar(&f.status, "status", "", "status label, e.g. Completed")
	cmd.Flags().StringVar(&f.icon, "icon", "", "icon name")
	cmd.Flags().StringVar(&f.color, "color", "", "color")
}

// patch includes only the flags set on the command line.
func (f *txFlags) patch(cmd *cobra.Command, a *app.App) (model.TransactionPatch, error) {
	var p model.TransactionPatch
	changed := cmd.Flags().Changed

	if changed("wallet") {
		p.WalletID = &f.walletID
	}
	if changed("type") {
		t, err := parseType(f.typ)
		if err != nil {
			return p, err
		}
		p.Type = &t
	}
	if changed("amount") {
		d, err := parseAmount(f.amount)
		if err != nil {
			return p, err
		}
		p.Amount = &d
	}
	if changed("date") {
		d, err := parseDay(f.date, a.Engine.Location)
		if err != nil {
			return p, err
		}
		p.Date = &d
	}
	strs := []struct {
		flag string
		dst  **string
		v    *string
	}{
		{"category", &p.Category, &f.category},
		{"platform", &p.Platform, &f.platform},
		{"method", &p.PaymentMethod, &f.paymentMethod},
		{"note", &p.Note, &f.note},
		{"status", &p.Status, &f.status},
		{"icon", &p.Icon, &f.icon},
		{"color", &p.Color, &f.color},
	}
	for _, s := range strs {
		if changed(s.flag) {
			*s.dst = s.v
		}
	}
	return p, nil
}

func newTxAddCommand(root *rootOptions) *cobra.Command {
	var flags txFlags

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				amount, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				typ, err := parseType(flags.typ)
				if err != nil {
					return err
				}
				date := a.Now()
				if flags.date != "" {
					if date, err = parseDay(flags.date, a.Engine.Location); err != nil {
						return err
					}
				}

				tx, err := a.AddTransaction(model.Transaction{
					WalletID:      flags.walletID,
					Type:          typ,
					Amount:        amount,
					Date:          date,
					Category:      flags.category,
					Platform:      flags.platform,
					PaymentMethod: flags.paymentMethod,
					Note:          flags.note,
					Status:        flags.status,
					Icon:          flags.icon,
					Color:         flags.color,
				})
				if err != nil {
					return err
				}
				w, _ := a.Wallets.Find(tx.WalletID)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s to %s (%s)\n", tx.Type, a.Money(w, tx.Amount), w.Name, tx.ID)
				return nil
			})
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func newTxEditCommand(root *rootOptions) *cobra.Command {
	var flags txFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				patch, err := flags.patch(cmd, a)
				if err != nil {
					return err
				}
				if patch.IsEmpty() {
					return errors.New("nothing to change, pass at least one field flag")
				}
				tx, err := a.UpdateTransaction(args[0], patch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %s\n", tx.ID)
				return nil
			})
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func newTxDeleteCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				if err := a.DeleteTransaction(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", args[0])
				return nil
			})
		},
	}
}

func newTxImportCommand(root *rootOptions) *cobra.Command {
	var format, walletID, dir string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a bank or walletbook CSV",
		Long: "Import a CSV file into a wallet. Without a file argument every CSV in\n" +
			"--dir is imported and moved to its processed/ subdirectory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				out := cmd.OutOrStdout()
				if len(args) == 1 {
					return importFile(a, out, format, args[0], walletID)
				}

				files, err := importer.Scan(dir)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintf(out, "No CSV files in %s\n", dir)
					return nil
				}
				for _, f := range files {
					if err := importFile(a, out, format, f.Path, walletID); err != nil {
						return err
					}
					if err := importer.MarkProcessed(dir, f.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "file format: chase or walletbook")
	cmd.Flags().StringVar(&walletID, "wallet", "", "target wallet id (default: selected)")
	cmd.Flags().StringVar(&dir, "dir", "import", "directory scanned when no file is given")
	return cmd
}

func importFile(a *app.App, out io.Writer, format, path, walletID string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	res, err := a.Import(format, f, walletID)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	fmt.Fprintf(out, "Imported %d transactions from %s", res.Added, filepath.Base(path))
	if res.Skipped > 0 {
		fmt.Fprintf(out, " (%d skipped)", res.Skipped)
	}
	fmt.Fprintln(out)
	return nil
}

func newTxExportCommand(root *rootOptions) *cobra.Command {
	var walletID string
	var all bool

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export transactions as walletbook CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				scope := ""
				if !all {
					w, err := walletOrSelected(a, walletID)
					if err != nil {
						return err
					}
					scope = w.ID
				}

				if len(args) == 0 {
					return a.Export(cmd.OutOrStdout(), scope)
				}

				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				if err := a.Export(f, scope); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("writing export file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&walletID, "wallet", "", "wallet id (default: selected)")
	cmd.Flags().BoolVar(&all, "all", false, "export every wallet")
	return cmd
}
