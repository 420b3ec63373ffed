package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/walletbook/walletbook/internal/aggregate"
	"github.com/walletbook/walletbook/internal/app"
	"github.com/walletbook/walletbook/internal/model"
)

func newReportCommand(root *rootOptions) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Dashboards, statistics and charts",
	}
	reportCmd.AddCommand(
		newReportDashboardCommand(root),
		newReportStatsCommand(root),
		newReportChartCommand(root),
	)
	return reportCmd
}

func newReportDashboardCommand(root *rootOptions) *cobra.Command {
	var walletID string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Balance, current cycle and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				w, err := walletOrSelected(a, walletID)
				if err != nil {
					return err
				}
				now := a.Now()
				d, err := a.Dashboard(w.ID, now)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s\n", w.Name)
				fmt.Fprintf(out, "Balance:  %s\n", a.Money(w, d.Balance))
				fmt.Fprintf(out, "Cycle:    %s\n", d.Cycle)
				fmt.Fprintf(out, "Income:   %s\n", a.Money(w, d.Totals.Income))
				fmt.Fprintf(out, "Expense:  %s\n", a.Money(w, d.Totals.Expense))
				if d.Enabled && d.Limit.IsPositive() {
					fmt.Fprintf(out, "Budget:   %s %.1f%% of %s\n", usageBar(d.Usage), d.Usage, a.Money(w, d.Limit))
					if d.OverBudget {
						fmt.Fprintln(out, "Over budget!")
					}
				}

				if len(d.Recent) == 0 {
					return nil
				}
				fmt.Fprintln(out)
				tw := newTable(out)
				for _, tx := range d.Recent {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
						humanize.RelTime(tx.Date, now, "ago", "from now"),
						optional(tx.Category),
						a.Money(w, tx.Signed()),
						tx.Note,
					)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&walletID, "wallet", "", "wallet id (default: selected)")
	return cmd
}

// statsFlags select the wallet, range and type of a statistics view.
type statsFlags struct {
	walletID string
	from     string
	to       string
	typ      string
}

func (f *statsFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.walletID, "wallet", "", "wallet id (default: selected)")
	cmd.Flags().StringVar(&f.from, "from", "", "first day, YYYY-MM-DD (default: cycle start)")
	cmd.Flags().StringVar(&f.to, "to", "", "last day, YYYY-MM-DD (default: cycle end)")
	cmd.Flags().StringVar(&f.typ, "type", string(model.TypeExpense), "expense or income")
}

func (f *statsFlags) stats(a *app.App) (app.Stats, error) {
	w, err := walletOrSelected(a, f.walletID)
	if err != nil {
		return app.Stats{}, err
	}
	typ, err := parseType(f.typ)
	if err != nil {
		return app.Stats{}, err
	}
	r, err := resolveRange(a, f.from, f.to)
	if err != nil {
		return app.Stats{}, err
	}
	return a.Stats(w.ID, r, typ)
}

func newReportStatsCommand(root *rootOptions) *cobra.Command {
	var flags statsFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Category and platform breakdown with a 7-day trend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				s, err := flags.stats(a)
				if err != nil {
					return err
				}
				w := s.Wallet
				out := cmd.OutOrStdout()

				fmt.Fprintf(out, "%s %s, %s\n", w.Name, s.Type, s.Range)
				fmt.Fprintf(out, "Total: %s (income %s, expense %s)\n",
					a.Money(w, s.Total), a.Money(w, s.Totals.Income), a.Money(w, s.Totals.Expense))

				writeBreakdown(cmd, a, w, "By category", s.Categories)
				writeBreakdown(cmd, a, w, "By platform", s.Platforms)

				fmt.Fprintln(out, "\nLast 7 days")
				tw := newTable(out)
				for _, p := range s.Trend {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Label, p.Date, a.Money(w, p.Value))
				}
				return tw.Flush()
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func writeBreakdown(cmd *cobra.Command, a *app.App, w model.Wallet, title string, slices []aggregate.Slice) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s\n", title)
	if len(slices) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	tw := newTable(out)
	for _, s := range slices {
		fmt.Fprintf(tw, "  %s\t%s\t%5.1f%%\n", s.Name, a.Money(w, s.Value), s.Percentage)
	}
	_ = tw.Flush()
}

func newReportChartCommand(root *rootOptions) *cobra.Command {
	var flags statsFlags
	var outDir string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the stats breakdown and trend as PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				s, err := flags.stats(a)
				if err != nil {
					return err
				}
				imgs, err := a.Charts(cmd.Context(), s)
				if err != nil {
					return err
				}
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("creating output dir: %w", err)
				}

				stamp := s.Range.Start.String()
				files := []struct {
					name string
					data []byte
				}{
					{fmt.Sprintf("%s-%s-categories.png", s.Type, stamp), imgs.Categories},
					{fmt.Sprintf("%s-%s-trend.png", s.Type, stamp), imgs.Trend},
				}
				out := cmd.OutOrStdout()
				for _, f := range files {
					if f.data == nil {
						fmt.Fprintf(out, "Skipped %s: no data\n", f.name)
						continue
					}
					path := filepath.Join(outDir, f.name)
					if err := os.WriteFile(path, f.data, 0o644); err != nil {
						return fmt.Errorf("writing %s: %w", f.name, err)
					}
					fmt.Fprintf(out, "Wrote %s (%s)\n", path, humanize.Bytes(uint64(len(f.data))))
				}
				return nil
			})
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&outDir, "out", "charts", "output directory")
	return cmd
}
