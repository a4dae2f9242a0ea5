package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/codec"
	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/ofx"
	"github.com/spf13/cobra"
)

// File formats.
const (
	formatAuto = "auto"
	formatJSON = "json"
	formatCSV  = "csv"
	formatXLSX = "xlsx"
	formatOFX  = "ofx"
)

var extensionFormats = map[string]string{
	".json": formatJSON,
	".csv":  formatCSV,
	".xlsx": formatXLSX,
	".ofx":  formatOFX,
	".qfx":  formatOFX,
}

// detectFormat resolves the --format flag, falling back to the file
// extension for auto.
func detectFormat(path, flag string, allowed ...string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flag))
	if format == "" || format == formatAuto {
		var ok bool
		format, ok = extensionFormats[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return "", fmt.Errorf("cannot tell the format of %q; pass --format (%s)", path, strings.Join(allowed, ", "))
		}
	}
	for _, a := range allowed {
		if a == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (want %s)", format, strings.Join(allowed, ", "))
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import transactions or budgets from a file",
		Long: `Import transactions from JSON, CSV, Excel or OFX/QFX bank statements.

Imports are all or nothing: if any record is invalid, nothing is added.
Imported transactions keep their ids unless the id is already in use.
With --budgets, FILE is a JSON array of budgets; existing budgets for the
same category are updated.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringP("format", "f", formatAuto, "file format (auto, json, csv, xlsx, ofx)")
	cmd.Flags().Bool("budgets", false, "import budgets instead of transactions")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) (err error) {
	path := args[0]
	formatFlag, _ := cmd.Flags().GetString("format")
	budgets, _ := cmd.Flags().GetBool("budgets")

	allowed := []string{formatJSON, formatCSV, formatXLSX, formatOFX}
	if budgets {
		allowed = []string{formatJSON}
	}
	format, err := detectFormat(path, formatFlag, allowed...)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return common.NewUserError("Could not read "+path, err)
	}

	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	ctx := cmd.Context()
	if budgets {
		list, err := codec.DecodeBudgetsJSON(data)
		if err != nil {
			return common.NewUserError("Could not read budgets from "+path, err)
		}
		_, _, err = s.app.ImportBudgets(ctx, list)
		return err
	}

	var list []model.Transaction
	switch format {
	case formatJSON:
		list, err = codec.DecodeTransactionsJSON(data)
	case formatCSV:
		list, err = codec.DecodeTransactionsCSV(bytes.NewReader(data))
	case formatXLSX:
		list, err = codec.DecodeWorkbook(bytes.NewReader(data))
	case formatOFX:
		var stmt *ofx.Statement
		if stmt, err = ofx.NewParser().Parse(ctx, bytes.NewReader(data)); err == nil {
			list = stmt.Transactions
			if stmt.Skipped > 0 {
				printLine(cmd, cli.FormatWarning(fmt.Sprintf("Skipped %d entries with no amount", stmt.Skipped)))
			}
		}
	}
	if err != nil {
		return common.NewUserError("Could not read transactions from "+path, err)
	}

	if _, err := s.app.ImportTransactions(ctx, list); err != nil {
		return common.NewUserError("Nothing was imported", err)
	}
	return nil
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export transactions or budgets to a file",
		Long: `Export every transaction as JSON, CSV or an Excel workbook. The workbook
has a second sheet with the budgets. Use - as FILE to write to standard
output.`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringP("format", "f", formatAuto, "file format (auto, json, csv, xlsx)")
	cmd.Flags().Bool("budgets", false, "export budgets as JSON instead of transactions")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	path := args[0]
	formatFlag, _ := cmd.Flags().GetString("format")
	budgets, _ := cmd.Flags().GetBool("budgets")

	allowed := []string{formatJSON, formatCSV, formatXLSX}
	if budgets {
		allowed = []string{formatJSON}
	}
	if path == "-" && (formatFlag == "" || formatFlag == formatAuto) {
		formatFlag = formatJSON
	}
	format, err := detectFormat(path, formatFlag, allowed...)
	if err != nil {
		return err
	}

	s, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer s.finish(cmd.Context(), &err)

	data, err := encodeExport(s.app.Store().Transactions(), s.app.Store().Budgets(), format, budgets)
	if err != nil {
		return err
	}

	if path == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return common.NewUserError("Could not create "+path, err)
	}
	if err := cli.WriteWithProgress(f, cmd.ErrOrStderr(), data, "Exporting"); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	printLine(cmd, cli.FormatSuccess("Exported to "+path))
	return nil
}

func encodeExport(transactions []model.Transaction, budgetList []model.Budget, format string, budgets bool) ([]byte, error) {
	if budgets {
		return codec.EncodeBudgetsJSON(budgetList)
	}
	switch format {
	case formatCSV:
		var buf bytes.Buffer
		err := codec.EncodeTransactionsCSV(&buf, transactions)
		return buf.Bytes(), err
	case formatXLSX:
		var buf bytes.Buffer
		err := codec.EncodeWorkbook(&buf, transactions, budgetList)
		return buf.Bytes(), err
	default:
		return codec.EncodeTransactionsJSON(transactions)
	}
}
