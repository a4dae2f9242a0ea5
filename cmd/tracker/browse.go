package main

import (
	"github.com/Veraticus/expense-tracker/internal/tui"
	"github.com/spf13/cobra"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "browse",
		Aliases: []string{"ui"},
		Short:   "Open the interactive transaction browser",
		Long: `Browse, filter and delete transactions with the dashboard and budget
alerts kept up to date. Press ? inside the browser for the key bindings.`,
		Args: cobra.NoArgs,
		RunE: runBrowse,
	}
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	bridge := tui.NewBridge()
	a, kv, err := openWith(ctx, dbPath(), bridge, bridge)
	if err != nil {
		return err
	}
	defer closeKV(kv)

	return tui.Run(ctx, a, bridge)
}
