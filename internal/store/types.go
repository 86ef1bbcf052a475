// =============================================================================
// fxexport - Store Row Types
// =============================================================================
//
// Structured rows returned by the data access layer. These mirror the
// register tables one-to-one and are immutable once read: the assembler only
// ever derives new values from them, it never writes back.
//
// =============================================================================

package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterStateRow is one currency position from the daily register
// snapshot. One row exists per currency held open on a given day.
type RegisterStateRow struct {
	// Currency is the numeric ISO 4217 currency code (e.g. "978" for EUR).
	Currency string

	// Amount is the opening amount in the source currency.
	Amount decimal.Decimal

	// BankFeePercent is the bank-fee percentage for the currency.
	// Zero when the store has no fee recorded.
	BankFeePercent decimal.Decimal
}

// TransactionRow is one completed exchange transaction.
type TransactionRow struct {
	// ListDate is the fx-list date the transaction was booked against.
	ListDate time.Time

	// Currency is the numeric currency code of the exchanged amount.
	Currency string

	// AmountSource is the amount in the source currency.
	// HasAmountSource is false when the store column was NULL.
	AmountSource    decimal.Decimal
	HasAmountSource bool

	// AmountLocal is the counter-value in the local currency.
	AmountLocal    decimal.Decimal
	HasAmountLocal bool

	// Timestamp is the transaction timestamp. When the store delivers a
	// value that does not parse as a timestamp it is preserved verbatim in
	// TimestampText and Timestamp stays zero.
	Timestamp     time.Time
	TimestampText string

	// Serial is the transaction serial number.
	Serial string

	// DocumentNumber is the card or document number presented.
	DocumentNumber string

	// PaymentInstrument is the payment-instrument code.
	PaymentInstrument string

	// AppliedRate is the exchange rate applied to the transaction.
	AppliedRate    decimal.Decimal
	HasAppliedRate bool

	// SellerName and SellerDocument identify the counterparty.
	SellerName     string
	SellerDocument string

	// BankFeePercent is the bank-fee percentage for the currency.
	BankFeePercent    decimal.Decimal
	HasBankFeePercent bool

	// OperatorName is the display name of the register operator.
	OperatorName string
}

// RateRow is one posted exchange rate for a (date, currency) pair in a
// given rate category.
type RateRow struct {
	Currency string
	Buy      decimal.Decimal
	Middle   decimal.Decimal
	Sell     decimal.Decimal
}
