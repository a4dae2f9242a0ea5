package main

import (
	"time"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/metrics"
	"github.com/Veraticus/expense-tracker/internal/query"
	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show totals, budgets and top categories",
		Long: `Show income, expenses, balance and savings rate for a window of days,
compared with the window before it.`,
		Args: cobra.NoArgs,
		RunE: runDashboard,
	}

	cmd.Flags().StringP("window", "w", query.DefaultWindow.String(), `window in days, or "all"`)
	cmd.Flags().Int("top", 5, "number of top expense categories to show")
	cmd.Flags().Bool("trend", false, "also show income and expenses per day")

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) (err error) {
	windowFlag, _ := cmd.Flags().GetString("window")
	window, err := query.ParseWindow(windowFlag)
	if err != nil {
		return err
	}
	top, _ := cmd.Flags().GetInt("top")
	trend, _ := cmd.Flags().GetBool("trend")

	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	a := s.app
	f := a.Filter()
	f.Window = window
	a.SetFilter(cmd.Context(), f)

	code := a.Settings().Currency
	current, _ := query.Split(a.Store().Transactions(), window, time.Now())

	printLine(cmd, cli.FormatTitle("Overview"))
	printLine(cmd, cli.RenderDashboard(a.Dashboard(), code))
	printLine(cmd, cli.FormatTitle("Budgets this month"))
	printLine(cmd, cli.RenderBudgets(a.Statuses(), code))
	printLine(cmd, cli.FormatTitle("Top categories"))
	printLine(cmd, cli.RenderCategories(metrics.TopCategories(current, top), code))
	printLine(cmd, cli.FormatTitle("Recent transactions"))
	printLine(cmd, cli.RenderTransactions(a.Recent(), code))
	if trend {
		printLine(cmd, cli.FormatTitle("Daily trend"))
		printLine(cmd, cli.RenderTrend(metrics.DailyTrend(current), code))
	}
	return nil
}

func healthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Score savings, budget adherence and spending consistency",
		Args:  cobra.NoArgs,
		RunE:  runHealth,
	}

	cmd.Flags().StringP("period", "p", string(query.PeriodMonth), "period (month, quarter, year, all)")

	return cmd
}

func runHealth(cmd *cobra.Command, _ []string) (err error) {
	periodFlag, _ := cmd.Flags().GetString("period")
	period, err := query.ParsePeriod(periodFlag)
	if err != nil {
		return err
	}

	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	printLine(cmd, cli.RenderBox("Financial health ("+string(period)+")", cli.RenderHealth(s.app.Health(period))))
	return nil
}
