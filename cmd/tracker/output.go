package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func printf(cmd *cobra.Command, format string, args ...any) {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		slog.Error("Failed to write output", "error", err)
	}
}

func printLine(cmd *cobra.Command, s string) {
	printf(cmd, "%s\n", s)
}
