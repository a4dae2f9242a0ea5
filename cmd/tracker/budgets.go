package main

import (
	"fmt"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/codec"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/currency"
	"github.com/Veraticus/expense-tracker/internal/metrics"
	"github.com/spf13/cobra"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "budget",
		Aliases: []string{"budgets"},
		Short:   "Manage monthly category budgets",
		Long: `Budgets cap the expenses of one category per calendar month.

Without a subcommand, shows this month's utilization of every budget.`,
		Args: cobra.NoArgs,
		RunE: runBudgetList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set CATEGORY AMOUNT",
		Short: "Create or update the budget for a category",
		Args:  cobra.ExactArgs(2),
		RunE:  runBudgetSet,
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "delete CATEGORY",
		Aliases: []string{"rm"},
		Short:   "Delete the budget for a category",
		Args:    cobra.ExactArgs(1),
		RunE:    runBudgetDelete,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show budget utilization for this month",
		Args:  cobra.NoArgs,
		RunE:  runBudgetList,
	})

	return cmd
}

func runBudgetSet(cmd *cobra.Command, args []string) (err error) {
	amount, err := codec.ParseAmount(args[1])
	if err != nil {
		return err
	}

	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	if err := s.app.UpsertBudget(cmd.Context(), args[0], amount); err != nil {
		return common.NewUserError("Could not save budget", err)
	}
	return nil
}

func runBudgetDelete(cmd *cobra.Command, args []string) (err error) {
	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	return s.app.DeleteBudget(cmd.Context(), args[0])
}

func runBudgetList(cmd *cobra.Command, _ []string) (err error) {
	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	statuses := s.app.Statuses()
	code := s.app.Settings().Currency
	printLine(cmd, cli.RenderBudgets(statuses, code))
	if len(statuses) > 0 {
		sum := metrics.SummarizeBudgets(statuses)
		printLine(cmd, cli.SubtleStyle.Render(fmt.Sprintf("Total %s, spent %s, remaining %s",
			currency.Format(sum.Total, code),
			currency.Format(sum.Spent, code),
			currency.Format(sum.Remaining, code))))
	}
	return nil
}
