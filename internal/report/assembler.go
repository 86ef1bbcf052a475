// =============================================================================
// fxexport - Report Assembler
// =============================================================================
//
// The assembler walks the requested date range one day at a time and builds
// the two element groups of each day from register-state rows, the daily
// rate list, and the day's transactions.
//
// PER-DAY SEQUENCE:
//   1. Resolve the register session for the day. No session means the day
//      is skipped entirely: no groups, no gap marker. This matches what the
//      register application has always produced.
//   2. Build one opening-balance entry per register-state row. The local
//      counter-value is amount x regular purchase rate (1.0 when no rate is
//      posted). The counterparty share is 100 minus the bank fee, passed
//      through unclamped.
//   3. Build one transaction entry per transaction row, numbered from 1 in
//      record order. The numbering restarts every day.
//
// RENDERING RULES:
//   - Monetary fields: fixed-point, exactly 2 decimals, '.' separator.
//   - Rate fields: plain decimal text, not forced to 2 decimals.
//   - Timestamps: "YYYY-MM-DD HH:MM:SS" when structured, verbatim otherwise.
//   - Free-text fields pass through the sanitizer.
//
// =============================================================================

package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/exchbih/fxexport/internal/rates"
	"github.com/exchbih/fxexport/internal/sanitize"
	"github.com/exchbih/fxexport/internal/store"
)

// timestampFormat renders structured transaction timestamps.
const timestampFormat = "2006-01-02 15:04:05"

// hundred is the fee complement base.
var hundred = decimal.NewFromInt(100)

// =============================================================================
// ASSEMBLER
// =============================================================================

// Source is the slice of the store the assembler reads from.
type Source interface {
	SessionForDay(ctx context.Context, day time.Time) (int64, bool, error)
	Balances(ctx context.Context, sessionID int64) ([]store.RegisterStateRow, error)
	Transactions(ctx context.Context, sessionID int64) ([]store.TransactionRow, error)
}

// Options tunes schema-version and country-flag behavior.
type Options struct {
	// Version selects the report schema. Default SchemaV3.
	Version SchemaVersion

	// DomesticMarker is the substring identifying a domestic seller
	// document (matched case-insensitively). Default "BIH".
	DomesticMarker string

	// ForeignMarker is the literal emitted in vevo_orszag for non-domestic
	// sellers. Default "K".
	ForeignMarker string
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		Version:        SchemaV3,
		DomesticMarker: "BIH",
		ForeignMarker:  "K",
	}
}

// Assembler builds report documents for date ranges.
type Assembler struct {
	source  Source
	rates   *rates.Resolver
	options Options
	log     zerolog.Logger
}

// NewAssembler creates an assembler over the given store slice and rate
// resolver.
func NewAssembler(source Source, resolver *rates.Resolver, options Options, log zerolog.Logger) *Assembler {
	if options.Version == 0 {
		options.Version = SchemaV3
	}
	return &Assembler{
		source:  source,
		rates:   resolver,
		options: options,
		log:     log,
	}
}

// =============================================================================
// DOCUMENT ASSEMBLY
// =============================================================================

// Build assembles the report document for an already-validated range.
func (a *Assembler) Build(ctx context.Context, r DateRange, identifier string) (*Document, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	doc := &Document{
		Identifier: identifier,
		Version:    a.options.Version,
	}

	for _, day := range r.Days() {
		block, ok, err := a.buildDay(ctx, day, identifier)
		if err != nil {
			return nil, fmt.Errorf("day %s: %w", day.Format(DayFormat), err)
		}
		if !ok {
			// No register session: the day is absent from the document.
			a.log.Warn().
				Str("day", day.Format(DayFormat)).
				Msg("no register session, day skipped")
			continue
		}
		doc.Days = append(doc.Days, block)
	}

	return doc, nil
}

// buildDay assembles one day block. ok is false when the day had no
// register session.
func (a *Assembler) buildDay(ctx context.Context, day time.Time, identifier string) (DayBlock, bool, error) {
	sessionID, found, err := a.source.SessionForDay(ctx, day)
	if err != nil {
		return DayBlock{}, false, err
	}
	if !found {
		return DayBlock{}, false, nil
	}

	block := DayBlock{Date: day}

	// Opening-balance group. A session with no open positions still yields
	// an (empty) group.
	balances, err := a.source.Balances(ctx, sessionID)
	if err != nil {
		return DayBlock{}, false, err
	}
	for _, row := range balances {
		entry, err := a.buildBalanceEntry(ctx, day, identifier, row)
		if err != nil {
			return DayBlock{}, false, err
		}
		block.Balances = append(block.Balances, entry)
	}

	if !a.options.Version.IncludesTransactions() {
		return block, true, nil
	}

	// Transaction group, numbered from 1 within the day.
	transactions, err := a.source.Transactions(ctx, sessionID)
	if err != nil {
		return DayBlock{}, false, err
	}

	var table rates.Table
	if a.options.Version == SchemaV3 && len(transactions) > 0 {
		table, err = a.rates.ResolveAll(ctx, day)
		if err != nil {
			return DayBlock{}, false, err
		}
	}

	for i, row := range transactions {
		block.Transactions = append(block.Transactions,
			a.buildTransactionEntry(i+1, identifier, row, table))
	}

	return block, true, nil
}

// buildBalanceEntry renders one opening-balance entry.
func (a *Assembler) buildBalanceEntry(ctx context.Context, day time.Time, identifier string, row store.RegisterStateRow) (BalanceEntry, error) {
	rate, err := a.rates.Resolve(ctx, day, row.Currency)
	if err != nil {
		return BalanceEntry{}, err
	}

	// 100 - fee may go negative for fees above 100 percent; the consumer
	// wants the raw complement, so it is not clamped.
	exchangePct := hundred.Sub(row.BankFeePercent)

	return BalanceEntry{
		Date:            day.Format(DayFormat),
		Register:        identifier,
		Currency:        row.Currency,
		Opening:         money(row.Amount),
		OpeningLocal:    money(row.Amount.Mul(rate)),
		BankPercent:     money(row.BankFeePercent),
		ExchangePercent: money(exchangePct),
	}, nil
}

// buildTransactionEntry renders one transaction entry with the given
// per-day sequence number.
func (a *Assembler) buildTransactionEntry(seq int, identifier string, row store.TransactionRow, table rates.Table) TransactionEntry {
	entry := TransactionEntry{
		Sequence:       strconv.Itoa(seq),
		Timestamp:      renderTimestamp(row),
		Register:       identifier,
		Operator:       sanitize.Text(row.OperatorName),
		Serial:         row.Serial,
		DocumentNumber: sanitize.Text(row.DocumentNumber),
		Currency:       row.Currency,
		PaymentMode:    sanitize.Text(row.PaymentInstrument),
		Value:          moneyOrZero(row.AmountSource, row.HasAmountSource),
		BankFee:        moneyOrZero(row.BankFeePercent, row.HasBankFeePercent),
		BuyerCode:      sanitize.Text(row.SellerName),
		BuyerDocument:  sanitize.Text(row.SellerDocument),
		BuyerCountry:   a.countryFlag(row.SellerDocument),
	}

	// Rate fields stay plain text; the consumer parses them unrounded.
	if row.HasAppliedRate {
		entry.AppliedRate = row.AppliedRate.String()
	}

	switch a.options.Version {
	case SchemaV2:
		// The early schema reused the applied rate as the base rate.
		entry.BaseRate = entry.AppliedRate
	case SchemaV3:
		// The current schema re-resolves the base rate from the daily list.
		entry.BaseRate = table.Get(row.Currency).String()
	}

	return entry
}

// countryFlag emits the foreign marker when the seller document is present
// and carries no trace of the domestic marker.
func (a *Assembler) countryFlag(sellerDocument string) string {
	if sellerDocument == "" {
		return ""
	}
	if strings.Contains(strings.ToUpper(sellerDocument), strings.ToUpper(a.options.DomesticMarker)) {
		return ""
	}
	return a.options.ForeignMarker
}

// =============================================================================
// RENDERING HELPERS
// =============================================================================

// money renders a monetary value with exactly two decimals, '.' separated,
// independent of locale.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// moneyOrZero renders an optional monetary value, "0.00" when absent.
func moneyOrZero(d decimal.Decimal, present bool) string {
	if !present {
		return "0.00"
	}
	return d.StringFixed(2)
}

// renderTimestamp formats a structured timestamp, or passes raw text
// through untouched when the store delivered no structured value.
func renderTimestamp(row store.TransactionRow) string {
	if !row.Timestamp.IsZero() {
		return row.Timestamp.Format(timestampFormat)
	}
	return row.TimestampText
}
