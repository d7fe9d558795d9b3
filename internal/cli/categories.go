package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bookkeeping/internal/core"
)

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(newCategoriesListCmd(), newCategoriesAddCmd(), newCategoriesRmCmd())
	return cmd
}

func newCategoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := deps.Ledger.Categories(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderCategories(cats))
			return nil
		},
	}
}

func newCategoriesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeFlag, _ := cmd.Flags().GetString("type")
			typ, err := core.ParsePolarity(typeFlag)
			if err != nil {
				return fmt.Errorf("--type: %w", err)
			}
			icon, _ := cmd.Flags().GetString("icon")

			c, err := deps.Ledger.AddCategory(cmd.Context(), args[0], typ, icon)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), successCard(
				fmt.Sprintf("Category %q created", c.Name),
				"ID:   "+strconv.FormatInt(c.ID, 10),
				"Type: "+string(c.Type)))
			return nil
		},
	}
	cmd.Flags().String("type", string(core.Expense), "INCOME or EXPENSE")
	cmd.Flags().String("icon", "", "icon name")
	return cmd
}

func newCategoriesRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := deps.Ledger.RemoveCategory(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), successCard(fmt.Sprintf("Category %d deleted", id)))
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidID, s)
	}
	return id, nil
}
