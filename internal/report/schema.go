// =============================================================================
// fxexport - Report Schema Versions
// =============================================================================
//
// The collection server's report schema evolved in three steps. Instead of
// three divergent assembly paths, one assembler is parameterized by the
// schema version:
//
//   SchemaV1 - opening-balance groups only (the original export).
//   SchemaV2 - both groups; the base rate is copied from the transaction's
//              own applied rate.
//   SchemaV3 - both groups; the base rate is re-resolved from the daily
//              regular rate list for the transaction's currency. Current
//              default.
//
// =============================================================================

package report

import "fmt"

// SchemaVersion selects which groups and derived fields the assembler emits.
type SchemaVersion int

const (
	SchemaV1 SchemaVersion = 1
	SchemaV2 SchemaVersion = 2
	SchemaV3 SchemaVersion = 3
)

// ParseSchemaVersion validates a configured schema version number.
func ParseSchemaVersion(n int) (SchemaVersion, error) {
	switch SchemaVersion(n) {
	case SchemaV1, SchemaV2, SchemaV3:
		return SchemaVersion(n), nil
	default:
		return 0, fmt.Errorf("unknown schema version %d (valid: 1, 2, 3)", n)
	}
}

// IncludesTransactions reports whether the version emits transaction groups.
func (v SchemaVersion) IncludesTransactions() bool {
	return v >= SchemaV2
}

func (v SchemaVersion) String() string {
	return fmt.Sprintf("v%d", int(v))
}
