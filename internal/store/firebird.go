// =============================================================================
// fxexport - Firebird Store
// =============================================================================
//
// Firebird implementation of the store interfaces on top of database/sql and
// the pure-Go firebirdsql driver. The register application keeps its data in
// the following tables:
//
//   FIRME                    - business registration, UNIQUEID per office
//   BLAGAJNICKI_DNEVNIK      - one register session (daily journal) per day
//   STANJE_BLAGAJNE          - opening currency positions of a session
//   TECAJNA_LISTA            - posted daily exchange-rate lists
//   BLAGAJNICKE_TRANSAKCIJE  - completed exchange transactions
//   VALUTE / KORISNICI       - currency fee and operator lookups
//
// Every query is parameterized; no values are ever interpolated into SQL
// text. The *sql.DB handle is opened once and reused for the lifetime of the
// owning engine.
//
// =============================================================================

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/nakagami/firebirdsql"
	"github.com/shopspring/decimal"
)

// regularRateCategory tags the rate list consulted for report conversion.
// Other categories (card rates, negotiated rates) are never used here.
const regularRateCategory = "R"

// dayFormat is the date form Firebird DATE parameters are bound with.
const dayFormat = "2006-01-02"

// =============================================================================
// CONNECTION
// =============================================================================

// FirebirdConfig holds the connection parameters for the register store.
type FirebirdConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// Firebird is the production Store backed by a Firebird database.
type Firebird struct {
	db *sql.DB
}

// OpenFirebird opens the register store and verifies the connection.
// The returned handle is process-wide; callers close it at shutdown.
func OpenFirebird(ctx context.Context, cfg FirebirdConfig) (*Firebird, error) {
	dsn := fmt.Sprintf("%s:%s@%s:%d/%s", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := sql.Open("firebirdsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open register store: %w", err)
	}

	// Fail fast on unreachable stores so the operator sees a connection
	// error before any report work starts.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect register store %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &Firebird{db: db}, nil
}

// Close releases the store handle.
func (f *Firebird) Close() error {
	return f.db.Close()
}

// =============================================================================
// READ QUERIES
// =============================================================================

// BusinessIdentifier returns the UNIQUEID of the most recent FIRME record.
func (f *Firebird) BusinessIdentifier(ctx context.Context) (string, error) {
	const q = `SELECT FIRST 1 UNIQUEID FROM FIRME ORDER BY IDFIRME DESC`

	var id sql.NullString
	err := f.db.QueryRowContext(ctx, q).Scan(&id)
	if err == sql.ErrNoRows || (err == nil && !id.Valid) {
		return "", ErrIdentifierNotFound
	}
	if err != nil {
		return "", fmt.Errorf("business identifier: %w", err)
	}

	return strings.TrimSpace(id.String), nil
}

// SessionForDay resolves the register-session id opened on the given day.
func (f *Firebird) SessionForDay(ctx context.Context, day time.Time) (int64, bool, error) {
	const q = `SELECT FIRST 1 ID_BD FROM BLAGAJNICKI_DNEVNIK WHERE DATUM = ?`

	var id int64
	err := f.db.QueryRowContext(ctx, q, day.Format(dayFormat)).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("session for %s: %w", day.Format(dayFormat), err)
	}

	return id, true, nil
}

// Balances returns the opening currency positions of a session, ordered by
// currency code ascending.
func (f *Firebird) Balances(ctx context.Context, sessionID int64) ([]RegisterStateRow, error) {
	const q = `
		SELECT sb.VALUTA_BROJCANO, sb.IZNOS_U_VALUTI, COALESCE(v.PROVBANKE, 0)
		FROM STANJE_BLAGAJNE sb
		LEFT JOIN VALUTE v ON sb.VALUTA_BROJCANO = v.VALUTA_BROJCANO
		WHERE sb.ID_BD = ?
		ORDER BY sb.VALUTA_BROJCANO`

	rows, err := f.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("balances for session %d: %w", sessionID, err)
	}
	defer rows.Close()

	var out []RegisterStateRow
	for rows.Next() {
		var (
			currency sql.NullString
			amount   sql.NullFloat64
			fee      sql.NullFloat64
		)
		if err := rows.Scan(&currency, &amount, &fee); err != nil {
			return nil, fmt.Errorf("scan balance row: %w", err)
		}

		out = append(out, RegisterStateRow{
			Currency:       strings.TrimSpace(currency.String),
			Amount:         nullDecimal(amount),
			BankFeePercent: nullDecimal(fee),
		})
	}

	return out, rows.Err()
}

// Rate returns the regular-category purchase rate for a (day, currency) pair.
func (f *Firebird) Rate(ctx context.Context, day time.Time, currency string) (decimal.Decimal, bool, error) {
	const q = `
		SELECT KUPOVNI_TECAJ FROM TECAJNA_LISTA
		WHERE DATUM = ? AND VALUTA_BROJCANO = ? AND VRSTA_TECAJNE_LISTE = ?`

	var rate sql.NullFloat64
	err := f.db.QueryRowContext(ctx, q, day.Format(dayFormat), currency, regularRateCategory).Scan(&rate)
	if err == sql.ErrNoRows || (err == nil && !rate.Valid) {
		return decimal.Decimal{}, false, nil
	}
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("rate for %s/%s: %w", day.Format(dayFormat), currency, err)
	}

	return decimal.NewFromFloat(rate.Float64), true, nil
}

// Rates returns all regular-category purchase rates posted for a day.
func (f *Firebird) Rates(ctx context.Context, day time.Time) (map[string]decimal.Decimal, error) {
	const q = `
		SELECT VALUTA_BROJCANO, KUPOVNI_TECAJ FROM TECAJNA_LISTA
		WHERE DATUM = ? AND VRSTA_TECAJNE_LISTE = ?`

	rows, err := f.db.QueryContext(ctx, q, day.Format(dayFormat), regularRateCategory)
	if err != nil {
		return nil, fmt.Errorf("rates for %s: %w", day.Format(dayFormat), err)
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			currency sql.NullString
			rate     sql.NullFloat64
		)
		if err := rows.Scan(&currency, &rate); err != nil {
			return nil, fmt.Errorf("scan rate row: %w", err)
		}
		if !currency.Valid || !rate.Valid {
			continue
		}
		out[strings.TrimSpace(currency.String)] = decimal.NewFromFloat(rate.Float64)
	}

	return out, rows.Err()
}

// Transactions returns the completed exchange transactions of a session in
// record order. Only completed exchanges (kind 'FG') are exported.
func (f *Firebird) Transactions(ctx context.Context, sessionID int64) ([]TransactionRow, error) {
	const q = `
		SELECT
			bt.TEC_TL_DATUM_TECAJNE_LISTE,
			bt.TEC_VALUTA_BROJCANO,
			bt.IZNOS_U_VALUTI,
			bt.IZNOS_U_KUNAMA,
			bt.DATUM_I_VRIJEME_TRANSAKCIJE,
			bt.SERIJSKI_BROJ,
			bt.BR_KARTICE,
			bt.OZNAKA_PLATNOG_INSTRUMENTA_U_K,
			bt.PRIMJENJENI_TECAJ,
			bt.PRODAOIME,
			bt.PRODAODOK,
			v.PROVBANKE,
			k.IME
		FROM BLAGAJNICKE_TRANSAKCIJE bt
		LEFT JOIN VALUTE v ON bt.TEC_VALUTA_BROJCANO = v.VALUTA_BROJCANO
		LEFT JOIN KORISNICI k ON bt.SISUSER = k.IDKOR
		WHERE bt.ID_BD = ? AND bt.VTR_VRSTA_TRANSAKCIJE = 'FG'
		ORDER BY bt.ID_BT`

	rows, err := f.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("transactions for session %d: %w", sessionID, err)
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		var (
			listDate   sql.NullTime
			currency   sql.NullString
			amountSrc  sql.NullFloat64
			amountLoc  sql.NullFloat64
			stamp      any
			serial     sql.NullString
			card       sql.NullString
			instrument sql.NullString
			rate       sql.NullFloat64
			seller     sql.NullString
			sellerDoc  sql.NullString
			fee        sql.NullFloat64
			operator   sql.NullString
		)
		if err := rows.Scan(&listDate, &currency, &amountSrc, &amountLoc, &stamp,
			&serial, &card, &instrument, &rate, &seller, &sellerDoc, &fee, &operator); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}

		row := TransactionRow{
			Currency:          strings.TrimSpace(currency.String),
			AmountSource:      nullDecimal(amountSrc),
			HasAmountSource:   amountSrc.Valid,
			AmountLocal:       nullDecimal(amountLoc),
			HasAmountLocal:    amountLoc.Valid,
			Serial:            strings.TrimSpace(serial.String),
			DocumentNumber:    strings.TrimSpace(card.String),
			PaymentInstrument: strings.TrimSpace(instrument.String),
			AppliedRate:       nullDecimal(rate),
			HasAppliedRate:    rate.Valid,
			SellerName:        strings.TrimSpace(seller.String),
			SellerDocument:    strings.TrimSpace(sellerDoc.String),
			BankFeePercent:    nullDecimal(fee),
			HasBankFeePercent: fee.Valid,
			OperatorName:      strings.TrimSpace(operator.String),
		}
		if listDate.Valid {
			row.ListDate = listDate.Time
		}

		// The timestamp column is a TIMESTAMP on current schemas, but older
		// register databases carried it as text. Structured values are kept
		// as time.Time, anything else passes through verbatim.
		switch v := stamp.(type) {
		case time.Time:
			row.Timestamp = v
		case []byte:
			row.TimestampText = strings.TrimSpace(string(v))
		case string:
			row.TimestampText = strings.TrimSpace(v)
		}

		out = append(out, row)
	}

	return out, rows.Err()
}

// =============================================================================
// WRITE QUERIES
// =============================================================================

// SaveRates stores the regular-category rate rows for a day, replacing any
// list already posted for that day. The replace runs in one transaction so a
// failed import never leaves a half-posted list.
func (f *Firebird) SaveRates(ctx context.Context, day time.Time, rates []RateRow) error {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save rates: %w", err)
	}
	defer tx.Rollback()

	const del = `DELETE FROM TECAJNA_LISTA WHERE DATUM = ? AND VRSTA_TECAJNE_LISTE = ?`
	if _, err := tx.ExecContext(ctx, del, day.Format(dayFormat), regularRateCategory); err != nil {
		return fmt.Errorf("clear rate list for %s: %w", day.Format(dayFormat), err)
	}

	const ins = `
		INSERT INTO TECAJNA_LISTA
			(DATUM, VALUTA_BROJCANO, VRSTA_TECAJNE_LISTE, KUPOVNI_TECAJ, SREDNJI_TECAJ, PRODAJNI_TECAJ)
		VALUES (?, ?, ?, ?, ?, ?)`

	for _, r := range rates {
		_, err := tx.ExecContext(ctx, ins,
			day.Format(dayFormat), r.Currency, regularRateCategory,
			r.Buy.InexactFloat64(), r.Middle.InexactFloat64(), r.Sell.InexactFloat64())
		if err != nil {
			return fmt.Errorf("insert rate %s: %w", r.Currency, err)
		}
	}

	return tx.Commit()
}

// nullDecimal converts a nullable float column to a decimal, zero on NULL.
func nullDecimal(v sql.NullFloat64) decimal.Decimal {
	if !v.Valid {
		return decimal.Decimal{}
	}
	return decimal.NewFromFloat(v.Float64)
}
