package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/walletbook/walletbook/internal/aggregate"
	"github.com/walletbook/walletbook/internal/app"
	"github.com/walletbook/walletbook/internal/model"
)

func newWalletCommand(root *rootOptions) *cobra.Command {
	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage wallets",
	}
	walletCmd.AddCommand(
		newWalletListCommand(root),
		newWalletAddCommand(root),
		newWalletSelectCommand(root),
		newWalletUpdateCommand(root),
		newWalletDeleteCommand(root),
	)
	return walletCmd
}

func newWalletListCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List wallets with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				txs := a.Ledger.List()
				selected := a.Wallets.Selected().ID

				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "\tID\tNAME\tTYPE\tCURRENCY\tBALANCE")
				for _, w := range a.Wallets.List() {
					marker := ""
					if w.ID == selected {
						marker = "*"
					}
					balance := aggregate.WalletBalance(txs, w.ID)
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", marker, w.ID, w.Name, optional(w.Type), w.Currency, a.Money(w, balance))
				}
				return tw.Flush()
			})
		},
	}
}

// walletFlags binds the editable wallet fields.
type walletFlags struct {
	name       string
	kind       string
	currency   string
	color      string
	themeColor string
	icon       string
	cardNumber string
}

func (f *walletFlags) bind(cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVar(&f.name, "name", "", "wallet name")
	}
	cmd.Flags().StringVar(&f.kind, "type", "", "free-form label, e.g. Savings")
	cmd.Flags().StringVar(&f.currency, "currency", "", "ISO 4217 currency code")
	cmd.Flags().StringVar(&f.color, "color", "", "card color")
	cmd.Flags().StringVar(&f.themeColor, "theme-color", "", "accent color")
	cmd.Flags().StringVar(&f.icon, "icon", "", "icon name")
	cmd.Flags().StringVar(&f.cardNumber, "card", "", "card number shown on the wallet")
}

// patch includes only the flags set on the command line.
func (f *walletFlags) patch(cmd *cobra.Command) model.WalletPatch {
	var p model.WalletPatch
	set := func(name string, dst **string, v *string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("name", &p.Name, &f.name)
	set("type", &p.Type, &f.kind)
	set("currency", &p.Currency, &f.currency)
	set("color", &p.Color, &f.color)
	set("theme-color", &p.ThemeColor, &f.themeColor)
	set("icon", &p.Icon, &f.icon)
	set("card", &p.CardNumber, &f.cardNumber)
	return p
}

func newWalletAddCommand(root *rootOptions) *cobra.Command {
	var flags walletFlags

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a wallet and select it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				w, err := a.AddWallet(model.Wallet{
					Name:       args[0],
					Type:       flags.kind,
					Currency:   flags.currency,
					Color:      flags.color,
					ThemeColor: flags.themeColor,
					Icon:       flags.icon,
					CardNumber: flags.cardNumber,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added wallet %s (%s)\n", w.Name, w.ID)
				return nil
			})
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func newWalletSelectCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Make a wallet the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				if err := a.SelectWallet(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Selected wallet %s\n", args[0])
				return nil
			})
		},
	}
}

func newWalletUpdateCommand(root *rootOptions) *cobra.Command {
	var flags walletFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change wallet details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				w, err := a.UpdateWallet(args[0], flags.patch(cmd))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated wallet %s (%s)\n", w.Name, w.ID)
				return nil
			})
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func newWalletDeleteCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a wallet, keeping its transactions on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				if err := a.DeleteWallet(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted wallet %s\n", args[0])
				return nil
			})
		},
	}
}
