// =============================================================================
// fxexport - Report Document Model
// =============================================================================
//
// In-memory form of one export document. A document is an ordered sequence
// of day blocks; each block carries exactly one opening-balance group and
// (from SchemaV2 on) exactly one transaction group. Entry fields are already
// rendered to their wire text by the assembler, so the writer only maps them
// onto the fixed element names.
//
// =============================================================================

package report

import "time"

// Document is the assembled report for one date range.
type Document struct {
	// Identifier is the business identifier stamped into every entry and
	// into the artifact name.
	Identifier string

	// Version is the schema version the document was assembled for.
	Version SchemaVersion

	// Days holds one block per day that had a register session, in date
	// order. Days without a session contribute nothing.
	Days []DayBlock
}

// DayBlock is the report content of a single processed day.
type DayBlock struct {
	Date time.Time

	// Balances is the opening-balance group, one entry per currency held
	// open that day, currency ascending. May be empty.
	Balances []BalanceEntry

	// Transactions is the transaction group in record order, numbered 1..N
	// within the day. May be empty. Unused before SchemaV2.
	Transactions []TransactionEntry
}

// BalanceEntry is one rendered valto_tetel element.
type BalanceEntry struct {
	Date            string // valto_datum
	Register        string // valto_nbr
	Currency        string // valto_valuta
	Opening         string // valto_nyito
	OpeningLocal    string // valto_nyito_km
	BankPercent     string // valto_bank_percent
	ExchangePercent string // valto_exc_percent
}

// TransactionEntry is one rendered kozonseges_tetel element.
type TransactionEntry struct {
	Sequence       string // nbr, restarts at 1 every day
	Timestamp      string // datum
	Register       string // valto
	Operator       string // felhasznalo
	Serial         string // tranzakcio
	DocumentNumber string // dokumentumszam
	Currency       string // valuta
	PaymentMode    string // fiz_mod
	Value          string // ertek
	AppliedRate    string // akt_arf
	BaseRate       string // alap_arf
	BankFee        string // bank_arf
	Routing        string // honnan_hova, always empty
	BuyerCode      string // vevo_kod
	BuyerAddress   string // vevo_cim, always empty
	BuyerDocument  string // vevo_utlevel_id
	BuyerCountry   string // vevo_orszag
}

// TransactionCount returns the total number of transaction entries across
// all day blocks.
func (d *Document) TransactionCount() int {
	n := 0
	for _, day := range d.Days {
		n += len(day.Transactions)
	}
	return n
}
