// Package ofx imports bank and credit card statements in OFX/QFX format.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned to imported transactions whose OFX type
// carries no category hint.
const DefaultCategory = "Uncategorized"

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagRegex  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Statement is the result of parsing one OFX file.
type Statement struct {
	Accounts     []string
	Transactions []model.Transaction
	// Skipped counts entries that could not become ledger transactions,
	// such as zero-amount memo lines.
	Skipped int
}

// Parser converts OFX/QFX files into ledger transactions.
type Parser struct {
	category string
}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{category: DefaultCategory}
}

// preprocessOFX repairs formatting quirks some banks emit.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	// SGML files sometimes drop the closing bracket of aggregate tags.
	return openTagRegex.ReplaceAllString(content, "$1>")
}

// Parse reads an OFX/QFX file. Debits (negative amounts) become expenses and
// credits become income; the amount is always stored as a positive value.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse OFX file: %w", common.ErrSerialization, err)
	}

	stmt := &Statement{}
	seen := make(map[string]bool)
	addAccount := func(id ofxgo.String) {
		if id != "" && !seen[string(id)] {
			seen[string(id)] = true
			stmt.Accounts = append(stmt.Accounts, string(id))
		}
	}

	for _, msg := range resp.Bank {
		bank, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		addAccount(bank.BankAcctFrom.AcctID)
		if bank.BankTranList != nil {
			p.collect(stmt, bank.BankTranList.Transactions, "bank")
		}
	}

	for _, msg := range resp.CreditCard {
		card, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		addAccount(card.CCAcctFrom.AcctID)
		if card.BankTranList != nil {
			p.collect(stmt, card.BankTranList.Transactions, "credit card")
		}
	}

	slog.Info("Parsed OFX file",
		"transactions", len(stmt.Transactions),
		"accounts", len(stmt.Accounts),
		"skipped", stmt.Skipped)

	return stmt, nil
}

func (p *Parser) collect(stmt *Statement, entries []ofxgo.Transaction, source string) {
	for _, entry := range entries {
		tx, err := p.convert(entry, source)
		if err != nil {
			slog.Debug("Skipping OFX entry", "fitid", string(entry.FiTID), "error", err)
			stmt.Skipped++
			continue
		}
		stmt.Transactions = append(stmt.Transactions, tx)
	}
}

func (p *Parser) convert(entry ofxgo.Transaction, source string) (model.Transaction, error) {
	amount, err := decimal.NewFromString(entry.TrnAmt.FloatString(2))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}

	tx := model.Transaction{
		ID:            string(entry.FiTID),
		Type:          model.TypeIncome,
		Date:          model.DateOf(entry.DtPosted.Time),
		Description:   description(entry),
		Category:      p.categoryFor(entry),
		Amount:        amount.Abs(),
		PaymentMethod: paymentMethod(entry, source),
	}
	if amount.IsNegative() {
		tx.Type = model.TypeExpense
	}

	tx.Normalize()
	if err := tx.Validate(); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

func (p *Parser) categoryFor(entry ofxgo.Transaction) string {
	switch entry.TrnType {
	case ofxgo.TrnTypeInt, ofxgo.TrnTypeDiv:
		return "Interest"
	case ofxgo.TrnTypeFee, ofxgo.TrnTypeSrvChg:
		return "Bank Fees"
	case ofxgo.TrnTypeATM:
		return "Cash & ATM"
	case ofxgo.TrnTypeDirectDep:
		return "Salary"
	default:
		return p.category
	}
}

func paymentMethod(entry ofxgo.Transaction, source string) string {
	switch entry.TrnType {
	case ofxgo.TrnTypeCheck:
		return "check"
	case ofxgo.TrnTypeATM, ofxgo.TrnTypeCash:
		return "cash"
	case ofxgo.TrnTypePOS:
		return "card"
	case ofxgo.TrnTypeXfer, ofxgo.TrnTypeDirectDep, ofxgo.TrnTypeDirectDebit:
		return "bank transfer"
	default:
		return source
	}
}

var purchasePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// description picks the most readable label for an entry: payee, then
// name, then memo when the name is generic or blank.
func description(entry ofxgo.Transaction) string {
	if entry.Payee != nil && strings.TrimSpace(string(entry.Payee.Name)) != "" {
		return strings.TrimSpace(string(entry.Payee.Name))
	}

	name := strings.TrimSpace(string(entry.Name))
	if entry.Memo != "" && (name == "" || genericNames[strings.ToUpper(name)]) {
		name = strings.TrimSpace(string(entry.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range purchasePrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "MM/DD " posting date.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}
