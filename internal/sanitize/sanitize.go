// =============================================================================
// fxexport - Text Sanitizer Module
// =============================================================================
//
// This module maps the ten Croatian diacritic letters to their hexadecimal
// numeric character references before they reach the XML writer. The remote
// collection server only accepts the reference form for these letters; every
// other character passes through unchanged.
//
// REPLACEMENT TABLE:
//   Č -> &#x010C;   č -> &#x010D;
//   Ć -> &#x0106;   ć -> &#x0107;
//   Đ -> &#x0110;   đ -> &#x0111;
//   Š -> &#x0160;   š -> &#x0161;
//   Ž -> &#x017D;   ž -> &#x017E;
//
// The replacement is idempotent: the letters themselves are replaced, never
// the ampersand sequences, so running already-sanitized text through again
// is a no-op.
//
// =============================================================================

package sanitize

import "strings"

// replacer holds the fixed letter-to-reference table. The pairs are disjoint
// single runes, so replacement order does not matter.
var replacer = strings.NewReplacer(
	"Č", "&#x010C;",
	"č", "&#x010D;",
	"Ć", "&#x0106;",
	"ć", "&#x0107;",
	"Đ", "&#x0110;",
	"đ", "&#x0111;",
	"Š", "&#x0160;",
	"š", "&#x0161;",
	"Ž", "&#x017D;",
	"ž", "&#x017E;",
)

// Text replaces the ten mapped letters with their numeric character
// references. An empty input returns an empty string.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return replacer.Replace(s)
}
