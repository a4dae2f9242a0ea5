package codec

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
)

// CSVHeader is the column layout for transaction CSV files.
var CSVHeader = []string{"Date", "Type", "Description", "Category", "Amount", "PaymentMethod"}

// headerKey folds a header cell for comparison; older exports wrote
// "Payment Method" with a space.
func headerKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

func checkHeader(row []string) error {
	if len(row) < len(CSVHeader)-1 {
		return fmt.Errorf("%w: csv header has %d columns, want %d", common.ErrSerialization, len(row), len(CSVHeader))
	}
	for i, want := range CSVHeader {
		if i >= len(row) {
			break
		}
		// Strip a UTF-8 BOM left by spreadsheet tools.
		got := strings.TrimPrefix(row[i], "\ufeff")
		if headerKey(got) != headerKey(want) {
			return fmt.Errorf("%w: csv column %d is %q, want %q", common.ErrSerialization, i+1, got, want)
		}
	}
	return nil
}

// DecodeTransactionsCSV parses transactions from CSV with CSVHeader as the
// first row. The PaymentMethod column is optional. Any malformed row
// rejects the whole file.
func DecodeTransactionsCSV(r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSerialization, err)
	}
	return decodeRows(rows)
}

// decodeRows converts a header row plus data rows into transactions. It is
// shared by the CSV and XLSX readers.
func decodeRows(rows [][]string) ([]model.Transaction, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", common.ErrSerialization)
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	for i, row := range rows[1:] {
		line := i + 2
		if isBlankRow(row) {
			continue
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("%w: line %d: expected at least 5 columns, got %d", common.ErrSerialization, line, len(row))
		}

		record := transactionRecord{
			Date:        row[0],
			Type:        row[1],
			Description: row[2],
			Category:    row[3],
			Amount:      json.Number(strings.TrimSpace(row[4])),
		}
		if len(row) > 5 {
			record.PaymentMethod = row[5]
		}

		t, err := record.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", common.ErrSerialization, line, err)
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}

func transactionRow(t model.Transaction) []string {
	return []string{
		model.FormatDate(t.Date),
		string(t.Type),
		t.Description,
		t.Category,
		t.Amount.String(),
		t.PaymentMethod,
	}
}

// EncodeTransactionsCSV writes transactions as CSV with CSVHeader.
func EncodeTransactionsCSV(w io.Writer, transactions []model.Transaction) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, t := range transactions {
		if err := writer.Write(transactionRow(t)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
