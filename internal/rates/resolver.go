// =============================================================================
// fxexport - Currency Rate Resolver
// =============================================================================
//
// Resolves the purchase exchange rate used to convert register amounts into
// the local currency. Rates come from the regular-category daily list in the
// store; a currency with no posted rate for a day legitimately converts at
// 1.0 (the local currency itself never has a posted rate, for example), so a
// miss is a default, never an error.
//
// =============================================================================

package rates

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Source is the slice of the store the resolver needs.
type Source interface {
	Rate(ctx context.Context, day time.Time, currency string) (decimal.Decimal, bool, error)
	Rates(ctx context.Context, day time.Time) (map[string]decimal.Decimal, error)
}

// Resolver answers rate lookups with default-on-miss semantics.
type Resolver struct {
	source Source
}

// NewResolver creates a resolver over the given rate source.
func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the regular purchase rate for the (day, currency) pair,
// or exactly 1.0 when no rate is posted.
func (r *Resolver) Resolve(ctx context.Context, day time.Time, currency string) (decimal.Decimal, error) {
	rate, found, err := r.source.Rate(ctx, day, currency)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !found {
		return decimal.NewFromInt(1), nil
	}
	return rate, nil
}

// ResolveAll returns the full rate table for a day. Lookups against the
// table carry the same per-key default: a currency missing from the posted
// list resolves to 1.0.
func (r *Resolver) ResolveAll(ctx context.Context, day time.Time) (Table, error) {
	posted, err := r.source.Rates(ctx, day)
	if err != nil {
		return Table{}, err
	}
	return Table{rates: posted}, nil
}

// Table is a day's rate list with default-on-miss lookups.
type Table struct {
	rates map[string]decimal.Decimal
}

// Get returns the posted rate for the currency, or 1.0 when absent.
func (t Table) Get(currency string) decimal.Decimal {
	if rate, ok := t.rates[currency]; ok {
		return rate
	}
	return decimal.NewFromInt(1)
}
