package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/codec"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/query"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add DESCRIPTION AMOUNT",
		Short: "Record an income or expense",
		Example: `  tracker add "Groceries" 54.20 --category Food
  tracker add "Salary" 3200 --type income --category Salary --date 2024-03-01`,
		Args: cobra.ExactArgs(2),
		RunE: runAdd,
	}

	cmd.Flags().StringP("type", "t", string(model.TypeExpense), "transaction type (income, expense)")
	cmd.Flags().StringP("category", "c", "", "category (required)")
	cmd.Flags().StringP("payment", "p", model.DefaultPaymentMethod, "payment method")
	cmd.Flags().StringP("date", "d", "", "date as YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) (err error) {
	t, err := transactionFromFlags(cmd, args[0], args[1], time.Now())
	if err != nil {
		return err
	}

	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	added, err := s.app.AddTransaction(cmd.Context(), t)
	if err != nil {
		return common.NewUserError("Could not add transaction", err)
	}
	printLine(cmd, cli.RenderTransactions([]model.Transaction{added}, s.app.Settings().Currency))
	return nil
}

// transactionFromFlags builds a transaction from add's arguments. The date
// defaults to today.
func transactionFromFlags(cmd *cobra.Command, description, amount string, now time.Time) (model.Transaction, error) {
	typeFlag, _ := cmd.Flags().GetString("type")
	category, _ := cmd.Flags().GetString("category")
	payment, _ := cmd.Flags().GetString("payment")
	dateFlag, _ := cmd.Flags().GetString("date")

	kind, err := model.ParseTransactionType(typeFlag)
	if err != nil {
		return model.Transaction{}, err
	}
	value, err := codec.ParseAmount(amount)
	if err != nil {
		return model.Transaction{}, err
	}
	date := model.DateOf(now)
	if dateFlag != "" {
		if date, err = model.ParseDate(dateFlag); err != nil {
			return model.Transaction{}, err
		}
	}

	return model.Transaction{
		Type:          kind,
		Description:   description,
		Category:      category,
		PaymentMethod: payment,
		Amount:        value,
		Date:          date,
	}, nil
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List transactions a page at a time",
		Long: fmt.Sprintf(`List transactions matching the filters, %d per page.

Search matches the description or category, ignoring case.`, query.PageSize),
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().StringP("category", "c", query.All, "only this category")
	cmd.Flags().StringP("type", "t", query.All, "only this type (all, income, expense)")
	cmd.Flags().StringP("search", "s", "", "search text")
	cmd.Flags().String("sort", query.DefaultSort.String(), "sort order (date-desc, date-asc, amount-desc, amount-asc)")
	cmd.Flags().IntP("page", "p", 1, "page number")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) (err error) {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	page, _ := cmd.Flags().GetInt("page")
	if page < 1 {
		return fmt.Errorf("page must be at least 1, got %d", page)
	}

	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	ctx := cmd.Context()
	a := s.app
	a.SetFilter(ctx, filter)
	moved := page == 1 || a.ChangePage(ctx, page-1)
	v := a.View()
	rows, num := v.Page, v.PageNum
	if !moved {
		// Past the last page: show it empty.
		rows, num = query.Paginate(v.Filtered, page), page
	}

	printLine(cmd, cli.RenderTransactions(rows, a.Settings().Currency))
	if len(v.Filtered) > 0 || page != 1 {
		printLine(cmd, cli.SubtleStyle.Render(fmt.Sprintf("Page %d of %d (%d transactions)", num, v.PageCount, len(v.Filtered))))
	}
	return nil
}

func filterFromFlags(cmd *cobra.Command) (query.Filter, error) {
	f := query.DefaultFilter()
	f.Category, _ = cmd.Flags().GetString("category")
	f.Search, _ = cmd.Flags().GetString("search")

	kind, _ := cmd.Flags().GetString("type")
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != query.All {
		parsed, err := model.ParseTransactionType(kind)
		if err != nil {
			return query.Filter{}, err
		}
		kind = string(parsed)
	}
	f.Type = kind

	sortFlag, _ := cmd.Flags().GetString("sort")
	sortBy, err := query.ParseSort(sortFlag)
	if err != nil {
		return query.Filter{}, err
	}
	f.Sort = sortBy
	return f, nil
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Long:    "Delete a transaction by id. Any unique prefix of the id is accepted, such as the short id shown by list.",
		Args:    cobra.ExactArgs(1),
		RunE:    runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) (err error) {
	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	id, err := resolveID(s.app.Store().Transactions(), args[0])
	if err != nil {
		return err
	}
	return s.app.DeleteTransaction(cmd.Context(), id)
}

// resolveID expands a unique id prefix to the full id. An exact match
// always wins. A prefix matching nothing is returned unchanged so the
// delete reports it as missing.
func resolveID(list []model.Transaction, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	var matches []string
	for _, t := range list {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return prefix, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q matches %d transactions; use more characters", prefix, len(matches))
	}
}
