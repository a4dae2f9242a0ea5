package ofx

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>DIRECTDEP
<DTPOSTED>20240122120000[0:GMT]
<TRNAMT>2000.00
<FITID>2024012201
<NAME>ACME PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>OTHER
<DTPOSTED>20240123120000[0:GMT]
<TRNAMT>0.00
<FITID>2024012301
<NAME>BALANCE INQUIRY
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		data         string
		wantCount    int
		wantSkipped  int
		wantAccounts []string
		wantErr      bool
	}{
		{
			name:         "bank statement",
			data:         sampleBankOFX,
			wantCount:    4,
			wantSkipped:  1,
			wantAccounts: []string{"1234567890"},
		},
		{
			name:         "credit card statement",
			data:         sampleCreditCardOFX,
			wantCount:    2,
			wantAccounts: []string{"4111111111111111"},
		},
		{name: "invalid data", data: "not valid OFX", wantErr: true},
		{name: "empty file", data: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := NewParser().Parse(context.Background(), strings.NewReader(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, stmt.Transactions, tt.wantCount)
			assert.Equal(t, tt.wantSkipped, stmt.Skipped)
			assert.Equal(t, tt.wantAccounts, stmt.Accounts)
		})
	}
}

func TestParse_BankTransactions(t *testing.T) {
	stmt, err := NewParser().Parse(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 4)

	coffee := stmt.Transactions[0]
	assert.Equal(t, "2024011501", coffee.ID)
	assert.Equal(t, "STARBUCKS STORE #1234", coffee.Description)
	assert.Equal(t, model.TypeExpense, coffee.Type)
	assert.Equal(t, "25.5", coffee.Amount.String())
	assert.Equal(t, "2024-01-15", model.FormatDate(coffee.Date))
	assert.Equal(t, DefaultCategory, coffee.Category)
	assert.Equal(t, "bank", coffee.PaymentMethod)

	payroll := stmt.Transactions[2]
	assert.Equal(t, model.TypeIncome, payroll.Type)
	assert.Equal(t, "2000", payroll.Amount.String())
	assert.Equal(t, "Salary", payroll.Category)
	assert.Equal(t, "bank transfer", payroll.PaymentMethod)

	check := stmt.Transactions[3]
	assert.Equal(t, "CHECK #1234", check.Description)
	assert.Equal(t, "500", check.Amount.String())
	assert.Equal(t, "check", check.PaymentMethod)
}

func TestParse_CreditCardTransactions(t *testing.T) {
	stmt, err := NewParser().Parse(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, stmt.Transactions, 2)

	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", stmt.Transactions[0].Description)
	assert.Equal(t, "45.99", stmt.Transactions[0].Amount.String())
	assert.Equal(t, "credit card", stmt.Transactions[0].PaymentMethod)
	assert.Equal(t, "NETFLIX.COM", stmt.Transactions[1].Description)
}

func TestParse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser().Parse(ctx, strings.NewReader(sampleBankOFX))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name     string
		entry    ofxgo.Transaction
		expected string
	}{
		{
			name:     "remove POS prefix",
			entry:    ofxgo.Transaction{Name: "POS PURCHASE STARBUCKS"},
			expected: "STARBUCKS",
		},
		{
			name:     "remove DEBIT CARD prefix",
			entry:    ofxgo.Transaction{Name: "DEBIT CARD PURCHASE WHOLE FOODS"},
			expected: "WHOLE FOODS",
		},
		{
			name:     "strip posting date",
			entry:    ofxgo.Transaction{Name: "01/15 CORNER BAKERY"},
			expected: "CORNER BAKERY",
		},
		{
			name:     "generic name falls back to memo",
			entry:    ofxgo.Transaction{Name: "DEBIT", Memo: "City Parking"},
			expected: "City Parking",
		},
		{
			name:     "payee wins",
			entry:    ofxgo.Transaction{Name: "SQ *BLUE BOTTLE", Payee: &ofxgo.Payee{Name: "Blue Bottle Coffee"}},
			expected: "Blue Bottle Coffee",
		},
		{
			name:     "trim whitespace",
			entry:    ofxgo.Transaction{Name: "  AMAZON.COM  "},
			expected: "AMAZON.COM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, description(tt.entry))
		})
	}
}

func TestCategoryAndPaymentMethod(t *testing.T) {
	tests := []struct {
		name         string
		entry        ofxgo.Transaction
		wantCategory string
		wantPayment  string
	}{
		{"interest", ofxgo.Transaction{TrnType: ofxgo.TrnTypeInt}, "Interest", "bank"},
		{"dividend", ofxgo.Transaction{TrnType: ofxgo.TrnTypeDiv}, "Interest", "bank"},
		{"service charge", ofxgo.Transaction{TrnType: ofxgo.TrnTypeSrvChg}, "Bank Fees", "bank"},
		{"atm withdrawal", ofxgo.Transaction{TrnType: ofxgo.TrnTypeATM}, "Cash & ATM", "cash"},
		{"direct deposit", ofxgo.Transaction{TrnType: ofxgo.TrnTypeDirectDep}, "Salary", "bank transfer"},
		{"point of sale", ofxgo.Transaction{TrnType: ofxgo.TrnTypePOS}, DefaultCategory, "card"},
		{"check", ofxgo.Transaction{TrnType: ofxgo.TrnTypeCheck}, DefaultCategory, "check"},
		{"debit keeps source", ofxgo.Transaction{TrnType: ofxgo.TrnTypeDebit}, DefaultCategory, "bank"},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCategory, p.categoryFor(tt.entry))
			assert.Equal(t, tt.wantPayment, paymentMethod(tt.entry, "bank"))
		})
	}
}
