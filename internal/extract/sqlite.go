// Package extract converts raw Android evidence (SQLite databases and
// filesystem artifacts) into the canonical per-source JSON format.
//
// Databases are opened read-only and immutable so extraction can never
// alter the evidence it reads.
package extract

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/nvaldes/custodia/internal/model"
)

// Android database locations relative to the raw evidence root
const (
	SMSDatabasePath  = "data/data/com.android.providers.telephony/databases/mmssms.db"
	CallDatabasePath = "data/data/com.android.providers.contacts/databases/calllog.db"
)

// Android sms.type codes
var smsTypes = map[int64]string{
	1: "incoming",
	2: "outgoing",
	3: "draft",
	4: "outbox",
}

// Android calls.type codes
var callTypes = map[int64]string{
	1: "incoming",
	2: "outgoing",
	3: "missed",
	5: "voicemail",
}

// Extractor pulls evidence records out of raw Android artifacts
type Extractor struct {
	log *zap.Logger
}

// NewExtractor returns an extractor logging through the given logger
func NewExtractor(log *zap.Logger) *Extractor {
	return &Extractor{log: log}
}

func openReadOnly(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&immutable=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dbPath, err)
	}
	return db, nil
}

// tableExists checks sqlite_master for a table before querying it, so a
// partially imaged database degrades to zero records instead of an
// opaque query error.
func tableExists(db *sql.DB, name string) (bool, error) {
	var found string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SMS extracts messages from an Android mmssms.db
func (e *Extractor) SMS(dbPath string) ([]model.EvidenceRecord, error) {
	db, err := openReadOnly(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ok, err := tableExists(db, "sms")
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", dbPath, err)
	}
	if !ok {
		e.log.Warn("sms table not found", zap.String("db", dbPath))
		return []model.EvidenceRecord{}, nil
	}

	rows, err := db.Query(`SELECT date, date_sent, type, body, address FROM sms ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sms: %w", err)
	}
	defer rows.Close()

	records := []model.EvidenceRecord{}
	for rows.Next() {
		var date, dateSent, msgType sql.NullInt64
		var body, address sql.NullString
		if err := rows.Scan(&date, &dateSent, &msgType, &body, &address); err != nil {
			return nil, fmt.Errorf("failed to scan sms row: %w", err)
		}

		// Fall back to date_sent when date is null
		ts := date
		if !ts.Valid || ts.Int64 == 0 {
			ts = dateSent
		}

		typ := codeToType(smsTypes, msgType)
		direction := "to"
		if typ == "incoming" {
			direction = "from"
		}
		details := fmt.Sprintf("Message %s %s: %s",
			direction, orDefault(address, "Unknown"), orDefault(body, "[No content]"))

		records = append(records, model.NewEvidenceRecord(msEpoch(ts), model.SourceSMS, typ, details))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sms rows: %w", err)
	}

	e.log.Info("extracted sms records", zap.String("db", dbPath), zap.Int("count", len(records)))
	return records, nil
}

// Calls extracts the call log from an Android calllog.db
func (e *Extractor) Calls(dbPath string) ([]model.EvidenceRecord, error) {
	db, err := openReadOnly(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ok, err := tableExists(db, "calls")
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", dbPath, err)
	}
	if !ok {
		e.log.Warn("calls table not found", zap.String("db", dbPath))
		return []model.EvidenceRecord{}, nil
	}

	rows, err := db.Query(`SELECT date, duration, type, number, name FROM calls ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query calls: %w", err)
	}
	defer rows.Close()

	records := []model.EvidenceRecord{}
	for rows.Next() {
		var date, duration, callType sql.NullInt64
		var number, name sql.NullString
		if err := rows.Scan(&date, &duration, &callType, &number, &name); err != nil {
			return nil, fmt.Errorf("failed to scan call row: %w", err)
		}

		typ := codeToType(callTypes, callType)
		direction := "to"
		if typ == "incoming" || typ == "missed" {
			direction = "from"
		}
		details := fmt.Sprintf("%s call %s %s (%s) - Duration: %s",
			capitalize(typ), direction,
			orDefault(name, "Unknown"), orDefault(number, "Unknown"),
			formatDuration(duration))

		records = append(records, model.NewEvidenceRecord(msEpoch(date), model.SourceCall, typ, details))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read call rows: %w", err)
	}

	e.log.Info("extracted call records", zap.String("db", dbPath), zap.Int("count", len(records)))
	return records, nil
}

// msEpoch formats an Android millisecond epoch as the canonical
// timestamp, in UTC so extraction output does not depend on the
// analysis machine's zone.
func msEpoch(v sql.NullInt64) string {
	if !v.Valid || v.Int64 == 0 {
		return "Unknown"
	}
	return time.UnixMilli(v.Int64).UTC().Format(model.TimestampLayout)
}

func codeToType(table map[int64]string, code sql.NullInt64) string {
	if code.Valid {
		if s, ok := table[code.Int64]; ok {
			return s
		}
	}
	return "unknown"
}

func orDefault(v sql.NullString, def string) string {
	if v.Valid && v.String != "" {
		return v.String
	}
	return def
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatDuration(v sql.NullInt64) string {
	seconds := int64(0)
	if v.Valid {
		seconds = v.Int64
	}
	if seconds <= 0 {
		return "0s"
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
