// =============================================================================
// fxexport - XML Document Writer
// =============================================================================
//
// This module serializes an assembled report document into the XML file the
// collection server ingests. Element names are the wire contract and are not
// renameable.
//
// XML STRUCTURE:
//   <tomeges_adatok>                     <!-- Root element -->
//     <valto_tetelek>                    <!-- Balance group, one per day -->
//       <valto_tetel>
//         <valto_datum>2026-03-02</valto_datum>
//         <valto_nbr>EX00017</valto_nbr>
//         <valto_valuta>978</valto_valuta>
//         <valto_nyito>100.00</valto_nyito>
//         <valto_nyito_km>195.58</valto_nyito_km>
//         <valto_bank_percent>2.50</valto_bank_percent>
//         <valto_exc_percent>97.50</valto_exc_percent>
//       </valto_tetel>
//     </valto_tetelek>
//     <kozonseges_tetelek>               <!-- Transaction group, one per day -->
//       <kozonseges_tetel>
//         <nbr>1</nbr>
//         ...
//         <honnan_hova></honnan_hova>    <!-- never self-closed -->
//       </kozonseges_tetel>
//     </kozonseges_tetelek>
//   </tomeges_adatok>
//
// EMPTY ELEMENTS:
//   The consumer rejects self-closed forms for the five buyer/routing
//   elements. A post-serialization pass rewrites exactly those tags to
//   explicit open/close pairs; every other empty element may stay
//   self-closed.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/exchbih/fxexport/internal/report"
)

// =============================================================================
// WIRE ELEMENT NAMES
// =============================================================================

const (
	elemRoot             = "tomeges_adatok"
	elemBalanceGroup     = "valto_tetelek"
	elemBalanceEntry     = "valto_tetel"
	elemTransactionGroup = "kozonseges_tetelek"
	elemTransactionEntry = "kozonseges_tetel"
)

// forceOpenClose lists the elements the consumer requires as explicit
// open/close pairs even when empty.
var forceOpenClose = []string{
	"honnan_hova",
	"vevo_kod",
	"vevo_cim",
	"vevo_utlevel_id",
	"vevo_orszag",
}

// =============================================================================
// SERIALIZATION OPTIONS
// =============================================================================

// Options contains serialization options.
type Options struct {
	// Indent is the string used for indentation. Default: two spaces.
	Indent string

	// IncludeXMLDeclaration determines whether to emit the XML declaration.
	// Default: true.
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration. Default: "1.0".
	XMLVersion string

	// Encoding is the encoding for the XML declaration. Default: "UTF-8".
	Encoding string
}

// DefaultOptions returns the default serialization options.
func DefaultOptions() Options {
	return Options{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
	}
}

// =============================================================================
// DOCUMENT WRITER
// =============================================================================

// Writer persists report documents under the export root with deterministic
// artifact names.
type Writer struct {
	// ExportDir is the directory artifacts are written to.
	ExportDir string

	// Suffix is an optional business suffix woven into artifact names
	// (e.g. a branch code). Omitted, with its underscore, when empty.
	Suffix string

	// Options control serialization.
	Options Options

	// Clock supplies the write-time timestamp; overridable in tests.
	Clock func() time.Time
}

// NewWriter creates a writer for the given export root.
func NewWriter(exportDir, suffix string) *Writer {
	return &Writer{
		ExportDir: exportDir,
		Suffix:    suffix,
		Options:   DefaultOptions(),
		Clock:     time.Now,
	}
}

// Write serializes the document and persists it under the export root.
//
// RETURNS:
//   - The artifact name (file name only, no directory).
//   - An error if the directory cannot be created or the file written.
func (w *Writer) Write(doc *report.Document) (string, error) {
	if err := os.MkdirAll(w.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("create export directory %s: %w", w.ExportDir, err)
	}

	name := ArtifactName(doc.Identifier, w.Suffix, w.Clock())
	path := filepath.Join(w.ExportDir, name)

	if err := os.WriteFile(path, Serialize(doc, w.Options), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return name, nil
}

// ArtifactName builds the deterministic artifact file name
// {identifier}_{suffix}_{yyyyMMdd_HHMMSS}.XML. The suffix segment is
// dropped entirely when no suffix is configured. Collisions within one
// clock second are accepted; runs are operator-paced.
func ArtifactName(identifier, suffix string, now time.Time) string {
	stamp := now.Format("20060102_150405")
	if suffix == "" {
		return fmt.Sprintf("%s_%s.XML", identifier, stamp)
	}
	return fmt.Sprintf("%s_%s_%s.XML", identifier, suffix, stamp)
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Serialize renders the document to its final byte form, including the
// empty-element normalization pass.
func Serialize(doc *report.Document, options Options) []byte {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}

	buffer.WriteString("<" + elemRoot + ">\n")

	// Per processed day: balance group first, then the transaction group.
	// Groups repeat per day; they are never merged.
	for _, day := range doc.Days {
		writeBalanceGroup(&buffer, day, options.Indent)
		if doc.Version.IncludesTransactions() {
			writeTransactionGroup(&buffer, day, options.Indent)
		}
	}

	buffer.WriteString("</" + elemRoot + ">\n")

	return normalizeEmptyElements(buffer.Bytes())
}

// field is one rendered element in wire order.
type field struct {
	tag   string
	value string
}

// writeBalanceGroup writes one day's valto_tetelek group.
func writeBalanceGroup(buffer *bytes.Buffer, day report.DayBlock, indent string) {
	if len(day.Balances) == 0 {
		writeEmptyGroup(buffer, elemBalanceGroup, indent)
		return
	}

	buffer.WriteString(indent + "<" + elemBalanceGroup + ">\n")
	for _, entry := range day.Balances {
		writeEntry(buffer, elemBalanceEntry, indent, []field{
			{"valto_datum", entry.Date},
			{"valto_nbr", entry.Register},
			{"valto_valuta", entry.Currency},
			{"valto_nyito", entry.Opening},
			{"valto_nyito_km", entry.OpeningLocal},
			{"valto_bank_percent", entry.BankPercent},
			{"valto_exc_percent", entry.ExchangePercent},
		})
	}
	buffer.WriteString(indent + "</" + elemBalanceGroup + ">\n")
}

// writeTransactionGroup writes one day's kozonseges_tetelek group.
func writeTransactionGroup(buffer *bytes.Buffer, day report.DayBlock, indent string) {
	if len(day.Transactions) == 0 {
		writeEmptyGroup(buffer, elemTransactionGroup, indent)
		return
	}

	buffer.WriteString(indent + "<" + elemTransactionGroup + ">\n")
	for _, entry := range day.Transactions {
		writeEntry(buffer, elemTransactionEntry, indent, []field{
			{"nbr", entry.Sequence},
			{"datum", entry.Timestamp},
			{"valto", entry.Register},
			{"felhasznalo", entry.Operator},
			{"tranzakcio", entry.Serial},
			{"dokumentumszam", entry.DocumentNumber},
			{"valuta", entry.Currency},
			{"fiz_mod", entry.PaymentMode},
			{"ertek", entry.Value},
			{"akt_arf", entry.AppliedRate},
			{"alap_arf", entry.BaseRate},
			{"bank_arf", entry.BankFee},
			{"honnan_hova", entry.Routing},
			{"vevo_kod", entry.BuyerCode},
			{"vevo_cim", entry.BuyerAddress},
			{"vevo_utlevel_id", entry.BuyerDocument},
			{"vevo_orszag", entry.BuyerCountry},
		})
	}
	buffer.WriteString(indent + "</" + elemTransactionGroup + ">\n")
}

// writeEmptyGroup writes a group element with no entries. A day with a
// register session but nothing to report still contributes its groups.
func writeEmptyGroup(buffer *bytes.Buffer, tag, indent string) {
	buffer.WriteString(indent + "<" + tag + "/>\n")
}

// writeEntry writes one entry element and its fields at nesting level two.
func writeEntry(buffer *bytes.Buffer, tag, indent string, fields []field) {
	buffer.WriteString(strings.Repeat(indent, 2) + "<" + tag + ">\n")
	for _, f := range fields {
		buffer.WriteString(strings.Repeat(indent, 3))
		if f.value == "" {
			buffer.WriteString("<" + f.tag + "/>\n")
			continue
		}
		buffer.WriteString("<" + f.tag + ">" + escapeXML(f.value) + "</" + f.tag + ">\n")
	}
	buffer.WriteString(strings.Repeat(indent, 2) + "</" + tag + ">\n")
}

// =============================================================================
// ESCAPING AND NORMALIZATION
// =============================================================================

// escapeXML escapes special characters for XML text content. Numeric
// character references already produced by the sanitizer pass through
// verbatim; escaping their ampersand would undo the sanitization.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for i, r := range s {
		switch r {
		case '&':
			if isCharRef(s[i:]) {
				buffer.WriteRune(r)
			} else {
				buffer.WriteString("&amp;")
			}
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// isCharRef reports whether s starts with a numeric character reference
// such as &#x010C; or &#268;.
func isCharRef(s string) bool {
	if !strings.HasPrefix(s, "&#") {
		return false
	}
	rest := s[2:]
	hex := strings.HasPrefix(rest, "x") || strings.HasPrefix(rest, "X")
	if hex {
		rest = rest[1:]
	}

	end := strings.IndexByte(rest, ';')
	if end < 1 {
		return false
	}

	for _, c := range rest[:end] {
		switch {
		case c >= '0' && c <= '9':
		case hex && (c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'):
		default:
			return false
		}
	}

	return true
}

// normalizeEmptyElements rewrites the self-closed form of the designated
// elements into explicit open/close pairs. The pass is restricted to that
// subset; other empty elements stay self-closed.
func normalizeEmptyElements(out []byte) []byte {
	for _, tag := range forceOpenClose {
		out = bytes.ReplaceAll(out,
			[]byte("<"+tag+"/>"),
			[]byte("<"+tag+"></"+tag+">"))
	}
	return out
}
