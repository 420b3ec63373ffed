package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/walletbook/walletbook/internal/app"
	"github.com/walletbook/walletbook/internal/categories"
	"github.com/walletbook/walletbook/internal/model"
)

func newCategoryCommand(root *rootOptions) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Built-in and custom categories",
	}
	categoryCmd.AddCommand(
		newCategoryListCommand(root),
		newCategoryAddCommand(root),
		newCategoryRemoveCommand(root),
	)
	return categoryCmd
}

func newCategoryListCommand(root *rootOptions) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				filter, err := parseType(typ)
				if err != nil {
					return err
				}
				items := a.Categories.All()
				if filter != "" {
					items = a.Categories.ByType(filter)
				}

				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tNAME\tTYPE\tICON\tCUSTOM")
				for _, item := range items {
					custom := ""
					if item.Custom {
						custom = "yes"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", item.ID, item.Name, item.Type, optional(item.Icon), custom)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "expense or income")
	return cmd
}

func newCategoryAddCommand(root *rootOptions) *cobra.Command {
	var typ, icon, color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				t, err := parseType(typ)
				if err != nil {
					return err
				}
				item, err := a.Categories.Add(categories.Item{
					Name:  args[0],
					Type:  t,
					Icon:  icon,
					Color: color,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s category %s (%s)\n", item.Type, item.Name, item.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&typ, "type", string(model.TypeExpense), "expense or income")
	cmd.Flags().StringVar(&icon, "icon", "", "icon name")
	cmd.Flags().StringVar(&color, "color", "", "color")
	return cmd
}

func newCategoryRemoveCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app.App) error {
				if !a.Categories.Remove(args[0]) {
					return fmt.Errorf("custom category %s: %w", args[0], app.ErrNotFound)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed category %s\n", args[0])
				return nil
			})
		},
	}
}
