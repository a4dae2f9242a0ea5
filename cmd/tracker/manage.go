package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction and budget",
		Long: `Delete every transaction and budget. Settings and exchange rates are kept.
Run "tracker backup" first if you may want the data back.`,
		Args: cobra.NoArgs,
		RunE: runClear,
	}
}

func runClear(cmd *cobra.Command, _ []string) (err error) {
	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	ctx := cmd.Context()
	store := s.app.Store()
	question := fmt.Sprintf("Delete %d transactions and %d budgets?", len(store.Transactions()), len(store.Budgets()))
	ok, err := cli.NewConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), viper.GetBool("yes")).Confirm(ctx, question)
	if err != nil {
		return err
	}
	if !ok {
		printLine(cmd, cli.FormatInfo("Nothing was deleted"))
		return nil
	}
	return s.app.Clear(ctx)
}

// Setting names accepted by "settings set".
const (
	settingAutoSave = "autosave"
	settingAlerts   = "alerts"
	settingSummary  = "summary"
	settingTheme    = "theme"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
		Args:  cobra.NoArgs,
		RunE:  runSettingsShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set NAME VALUE",
		Short: "Change a preference",
		Long: `Change a preference:

  autosave on|off   save after every change
  alerts on|off     warn when a budget reaches 80% and 100%
  summary on|off    show last month's summary on the first of the month
  theme light|dark  browser colors

Use "tracker currency" to change the currency.`,
		Args: cobra.ExactArgs(2),
		RunE: runSettingsSet,
	})

	return cmd
}

func runSettingsShow(cmd *cobra.Command, _ []string) (err error) {
	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	printLine(cmd, cli.RenderSettings(s.app.Settings()))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) (err error) {
	name := strings.ToLower(args[0])
	value := strings.ToLower(strings.TrimSpace(args[1]))

	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	ctx := cmd.Context()
	a := s.app
	switch name {
	case settingTheme:
		if err := a.SetTheme(ctx, model.Theme(value)); err != nil {
			return err
		}
	case settingAutoSave, settingAlerts, settingSummary:
		on, err := parseToggle(value)
		if err != nil {
			return err
		}
		switch name {
		case settingAutoSave:
			// The toggle itself is always written.
			a.SetAutoSave(ctx, on)
			s.settled()
		case settingAlerts:
			a.SetBudgetAlerts(ctx, on)
		default:
			a.SetMonthlySummary(ctx, on)
		}
	default:
		return fmt.Errorf("unknown setting %q (want %s, %s, %s or %s)", name, settingAutoSave, settingAlerts, settingSummary, settingTheme)
	}
	printLine(cmd, cli.RenderSettings(a.Settings()))
	return nil
}

// parseToggle accepts on/off as well as the forms strconv.ParseBool does.
func parseToggle(s string) (bool, error) {
	switch s {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	on, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid value %q (want on or off)", s)
	}
	return on, nil
}

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup [DEST]",
		Short: "Copy the ledger database to a backup file",
		Long: `Write a consistent copy of the ledger database. DEST defaults to a
timestamped file in a backups directory next to the database and must not
exist yet.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBackup,
	}

	cmd.Flags().BoolP("list", "l", false, "list previous backups instead")

	return cmd
}

func runBackup(cmd *cobra.Command, args []string) (err error) {
	list, _ := cmd.Flags().GetBool("list")

	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	ctx := cmd.Context()
	if list {
		backups, err := s.kv.Backups(ctx)
		if err != nil {
			return err
		}
		printLine(cmd, cli.RenderBackups(backups))
		return nil
	}

	dest := s.kv.DefaultBackupPath()
	if len(args) == 1 {
		if dest, err = filepath.Abs(args[0]); err != nil {
			return err
		}
	}
	info, err := s.kv.Backup(ctx, dest)
	if err != nil {
		return err
	}
	printLine(cmd, cli.FormatSuccess(fmt.Sprintf("Backed up %d records to %s", info.Records, info.Path)))
	return nil
}
