package codec

import (
	"fmt"
	"io"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names used in workbook exports.
const (
	TransactionsSheet = "Transactions"
	BudgetsSheet      = "Budgets"
)

// EncodeWorkbook writes transactions and budgets to an XLSX workbook with
// one sheet each. Amounts are written as numbers so the sheet can sum them.
func EncodeWorkbook(w io.Writer, transactions []model.Transaction, budgets []model.Budget) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(TransactionsSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	header := make([]any, len(CSVHeader))
	for i, h := range CSVHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(TransactionsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, t := range transactions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			model.FormatDate(t.Date),
			string(t.Type),
			t.Description,
			t.Category,
			t.Amount.InexactFloat64(),
			t.PaymentMethod,
		}
		if err := f.SetSheetRow(TransactionsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(TransactionsSheet, "A", "B", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(TransactionsSheet, "C", "D", 28); err != nil {
		return err
	}

	if _, err := f.NewSheet(BudgetsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.SetSheetRow(BudgetsSheet, "A1", &[]any{"Category", "Amount"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, b := range budgets {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(BudgetsSheet, cell, &[]any{b.Category, b.Amount.InexactFloat64()}); err != nil {
			return fmt.Errorf("failed to write budget row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// DecodeWorkbook reads transactions from the Transactions sheet of an XLSX
// workbook. The sheet uses the same columns as the CSV format.
func DecodeWorkbook(r io.Reader) ([]model.Transaction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSerialization, err)
	}
	defer func() { _ = f.Close() }()

	sheet := TransactionsSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		// Fall back to the first sheet for hand-made workbooks.
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", common.ErrSerialization)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSerialization, err)
	}
	return decodeRows(rows)
}
