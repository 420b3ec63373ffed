package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/walletbook/walletbook/internal/aggregate"
	"github.com/walletbook/walletbook/internal/app"
)

func newBudgetCommand(root *rootOptions) *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Spending limits and the budget cycle",
	}
	budgetCmd.AddCommand(
		newBudgetShowCommand(root),
		newBudgetSetLimitCommand(root),
		newBudgetToggleCommand(root, "enable", true),
		newBudgetToggleCommand(root, "disable", false),
		newBudgetCycleDayCommand(root),
	)
	return budgetCmd
}

func newBudgetShowCommand(root *rootOptions) *cobra.Command {
	var walletID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the budget of a wallet in the current cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				w, err := walletOrSelected(a, walletID)
				if err != nil {
					return err
				}
				d, err := a.Dashboard(w.ID, a.Now())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Wallet:     %s\n", w.Name)
				fmt.Fprintf(out, "Cycle:      %s (starts on day %d)\n", d.Cycle, a.Budget.CycleStartDay())
				fmt.Fprintf(out, "Enabled:    %t\n", d.Enabled)
				if !d.Limit.IsPositive() {
					fmt.Fprintln(out, "Limit:      not set")
					return nil
				}
				fmt.Fprintf(out, "Limit:      %s\n", a.Money(w, d.Limit))
				fmt.Fprintf(out, "Spent:      %s\n", a.Money(w, d.Totals.Expense))
				fmt.Fprintf(out, "Remaining:  %s\n", a.Money(w, d.Limit.Sub(d.Totals.Expense)))
				if d.Enabled {
					fmt.Fprintf(out, "Used:       %.1f%%\n", d.Usage)
					if d.OverBudget {
						fmt.Fprintln(out, "Over budget!")
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&walletID, "wallet", "", "wallet id (default: selected)")
	return cmd
}

func newBudgetSetLimitCommand(root *rootOptions) *cobra.Command {
	var walletID string

	cmd := &cobra.Command{
		Use:   "set-limit <amount>",
		Short: "Set the cycle spending limit of a wallet (0 clears it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				w, err := walletOrSelected(a, walletID)
				if err != nil {
					return err
				}
				limit, err := parseAmount(args[0])
				if err != nil {
					return err
				}
				if err := a.SetBudgetLimit(w.ID, limit); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Limit of %s set to %s\n", w.Name, a.Money(w, limit))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&walletID, "wallet", "", "wallet id (default: selected)")
	return cmd
}

func newBudgetToggleCommand(root *rootOptions, use string, enabled bool) *cobra.Command {
	var walletID string

	cmd := &cobra.Command{
		Use:   use,
		Short: use + " budget tracking for a wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				w, err := walletOrSelected(a, walletID)
				if err != nil {
					return err
				}
				if err := a.SetBudgetEnabled(w.ID, enabled); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Budget of %s %sd\n", w.Name, use)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&walletID, "wallet", "", "wallet id (default: selected)")
	return cmd
}

func newBudgetCycleDayCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle-day [day]",
		Short: "Show or set the day of month each budget cycle starts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				out := cmd.OutOrStdout()
				if len(args) == 1 {
					day, err := strconv.Atoi(args[0])
					if err != nil {
						return fmt.Errorf("cycle day %q is not a number", args[0])
					}
					if err := a.Budget.SetCycleStartDay(day); err != nil {
						return err
					}
				}
				r := a.CurrentCycle(a.Now())
				fmt.Fprintf(out, "Cycle starts on day %d, current cycle %s (%d days)\n",
					a.Budget.CycleStartDay(), r, r.Days())
				return nil
			})
		},
	}
}

// usageBar draws budget usage as a 20-cell bar.
func usageBar(usage float64) string {
	filled := int(aggregate.ClampPercent(usage) / 5)
	bar := make([]byte, 20)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = '.'
		}
	}
	return "[" + string(bar) + "]"
}
