package main

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/currency"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func currencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "currency [CODE]",
		Short: "Show or change the ledger currency",
		Long: `Without an argument, prints the ledger currency.

With a currency code, converts every transaction and budget into that
currency at the current exchange rate after showing a preview. Supported
codes: ` + strings.Join(model.SupportedCurrencies, ", "),
		Args: cobra.MaximumNArgs(1),
		RunE: runCurrency,
	}
}

func runCurrency(cmd *cobra.Command, args []string) (err error) {
	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	if len(args) == 0 {
		code := s.app.Settings().Currency
		printLine(cmd, code+" "+currency.Symbol(code))
		return nil
	}

	ctx := cmd.Context()
	confirmer := cli.NewConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), viper.GetBool("yes"))
	var askErr error
	confirm := func(p currency.Preview) bool {
		printLine(cmd, cli.FormatInfo(p.String()))
		ok, err := confirmer.Confirm(ctx, "Convert every amount in the ledger?")
		askErr = err
		return ok
	}

	err = s.app.ConvertCurrency(ctx, args[0], confirm)
	if askErr != nil {
		return askErr
	}
	if errors.Is(err, common.ErrConversionCancelled) {
		return nil
	}
	return err
}

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show exchange rates",
		Long: `Show the exchange rate of every supported currency against the ledger
currency. --refresh simulates a rate update, moving every rate by up to 2%.`,
		Args: cobra.NoArgs,
		RunE: runRates,
	}

	cmd.Flags().Bool("refresh", false, "update the rates before showing them")

	return cmd
}

func runRates(cmd *cobra.Command, _ []string) (err error) {
	refresh, _ := cmd.Flags().GetBool("refresh")

	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	table := s.app.Rates()
	if refresh {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		if table, err = s.app.RefreshRates(cmd.Context(), rng); err != nil {
			return err
		}
	}
	printLine(cmd, cli.RenderRates(table, s.app.Settings().Currency))
	return nil
}
