package xmlwriter

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exchbih/fxexport/internal/report"
)

func sampleDocument() *report.Document {
	return &report.Document{
		Identifier: "EX00017",
		Version:    report.SchemaV3,
		Days: []report.DayBlock{
			{
				Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				Balances: []report.BalanceEntry{
					{
						Date:            "2026-03-02",
						Register:        "EX00017",
						Currency:        "978",
						Opening:         "100.00",
						OpeningLocal:    "195.58",
						BankPercent:     "2.50",
						ExchangePercent: "97.50",
					},
				},
				Transactions: []report.TransactionEntry{
					{
						Sequence:    "1",
						Timestamp:   "2026-03-02 10:15:00",
						Register:    "EX00017",
						Operator:    "&#x0160;ana",
						Serial:      "S-0001",
						Currency:    "978",
						Value:       "200.00",
						AppliedRate: "1.95583",
						BaseRate:    "1.95583",
						BankFee:     "2.50",
						BuyerCode:   "Smith & Co",
					},
				},
			},
		},
	}
}

func TestSerialize(t *testing.T) {
	out := string(Serialize(sampleDocument(), DefaultOptions()))

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, "<tomeges_adatok>")
	assert.Contains(t, out, "    <valto_tetel>\n      <valto_datum>2026-03-02</valto_datum>")
	assert.Contains(t, out, "<valto_bank_percent>2.50</valto_bank_percent>")
	assert.Contains(t, out, "<valto_exc_percent>97.50</valto_exc_percent>")
	assert.Contains(t, out, "<nbr>1</nbr>")
	assert.Contains(t, out, "<datum>2026-03-02 10:15:00</datum>")
}

// The five buyer/routing elements must round-trip as explicit open/close
// pairs even when empty; other empty elements may stay self-closed.
func TestSerializeEmptyElementNormalization(t *testing.T) {
	out := string(Serialize(sampleDocument(), DefaultOptions()))

	for _, tag := range []string{"honnan_hova", "vevo_cim", "vevo_utlevel_id", "vevo_orszag"} {
		assert.Contains(t, out, "<"+tag+"></"+tag+">", "tag %s", tag)
		assert.NotContains(t, out, "<"+tag+"/>", "tag %s", tag)
	}

	// akt_arf is outside the designated subset: self-closed when empty.
	doc := sampleDocument()
	doc.Days[0].Transactions[0].AppliedRate = ""
	assert.Contains(t, string(Serialize(doc, DefaultOptions())), "<akt_arf/>")
}

// Sanitizer character references survive serialization; plain ampersands
// are escaped.
func TestSerializeEscaping(t *testing.T) {
	out := string(Serialize(sampleDocument(), DefaultOptions()))

	assert.Contains(t, out, "<felhasznalo>&#x0160;ana</felhasznalo>")
	assert.Contains(t, out, "<vevo_kod>Smith &amp; Co</vevo_kod>")
}

// Days with a session but no transactions keep their (empty) group, one
// pair of groups per day.
func TestSerializePerDayGroups(t *testing.T) {
	doc := sampleDocument()
	doc.Days = append(doc.Days, report.DayBlock{
		Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
	})

	out := string(Serialize(doc, DefaultOptions()))

	assert.Equal(t, 2, strings.Count(out, "<valto_tetelek"))
	assert.Equal(t, 2, strings.Count(out, "<kozonseges_tetelek"))
	assert.Contains(t, out, "<valto_tetelek/>")
	assert.Contains(t, out, "<kozonseges_tetelek/>")
}

// Schema v1 documents carry no transaction groups at all.
func TestSerializeSchemaV1(t *testing.T) {
	doc := sampleDocument()
	doc.Version = report.SchemaV1

	out := string(Serialize(doc, DefaultOptions()))

	assert.Contains(t, out, "<valto_tetelek>")
	assert.NotContains(t, out, "kozonseges_tetelek")
}

// Serialized output must stay syntactically well-formed XML.
func TestSerializeWellFormed(t *testing.T) {
	out := Serialize(sampleDocument(), DefaultOptions())

	decoder := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := decoder.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestArtifactName(t *testing.T) {
	at := time.Date(2026, 3, 7, 16, 15, 0, 0, time.UTC)

	assert.Equal(t, "EX00017_20260307_161500.XML", ArtifactName("EX00017", "", at))
	assert.Equal(t, "EX00017_BL2_20260307_161500.XML", ArtifactName("EX00017", "BL2", at))
}

func TestWriterWrite(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "")
	w.Clock = func() time.Time {
		return time.Date(2026, 3, 7, 16, 15, 0, 0, time.UTC)
	}

	name, err := w.Write(sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, "EX00017_20260307_161500.XML", name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<tomeges_adatok>")
	assert.Contains(t, string(data), "<honnan_hova></honnan_hova>")
}
