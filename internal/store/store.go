// =============================================================================
// fxexport - Store Interface
// =============================================================================
//
// This file defines the query surface of the register store. The report
// assembler and the publish engine depend on these interfaces, not on the
// Firebird implementation, so tests can substitute stateful fakes.
//
// QUERY SEMANTICS:
//   - All date predicates are inclusive on both ends.
//   - Currency and date matching is exact-equality.
//   - A missing register session for a day is NOT an error; it is reported
//     through the found flag and the caller decides what to do.
//
// =============================================================================

package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrIdentifierNotFound is returned when the store holds no business
// registration record. Nothing can be exported without the identifier.
var ErrIdentifierNotFound = errors.New("business identifier not found")

// Store is the read surface the report generation depends on.
type Store interface {
	// BusinessIdentifier returns the most recently registered business
	// identifier. The identifier is mandatory for any export: its absence
	// aborts the whole run.
	BusinessIdentifier(ctx context.Context) (string, error)

	// SessionForDay resolves the register-session id for a calendar day.
	// found is false when no session was opened that day.
	SessionForDay(ctx context.Context, day time.Time) (sessionID int64, found bool, err error)

	// Balances returns the register-state rows of a session, ordered by
	// currency code ascending.
	Balances(ctx context.Context, sessionID int64) ([]RegisterStateRow, error)

	// Rate returns the regular-category purchase rate for a (day, currency)
	// pair. found is false when no rate is posted; defaulting is the rate
	// resolver's concern, not the store's.
	Rate(ctx context.Context, day time.Time, currency string) (rate decimal.Decimal, found bool, err error)

	// Rates returns all regular-category purchase rates posted for a day,
	// keyed by currency code.
	Rates(ctx context.Context, day time.Time) (map[string]decimal.Decimal, error)

	// Transactions returns the completed exchange transactions of a session
	// in record order.
	Transactions(ctx context.Context, sessionID int64) ([]TransactionRow, error)
}

// RateWriter is the write surface used by the rate-sheet importer.
type RateWriter interface {
	// SaveRates stores the regular-category rate rows for a day, replacing
	// any rates already posted for that day.
	SaveRates(ctx context.Context, day time.Time, rows []RateRow) error
}
