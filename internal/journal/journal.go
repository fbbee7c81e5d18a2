// Package journal keeps a local SQLite chronicle of the campaign: one ledger row per
// month and one row per resolved event.
package journal

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/DaanHessen/sovereign-tui/internal/engine"
)

// Journal wraps a SQLite connection.
type Journal struct {
	conn *sqlx.DB
}

// LedgerEntry is the treasury picture at one month start.
type LedgerEntry struct {
	Date     string  `db:"date"`
	Treasury float64 `db:"treasury"`
	Income   float64 `db:"income"`
	Expenses float64 `db:"expenses"`
	Interest float64 `db:"interest"`
	Manpower int     `db:"manpower"`
}

// EventEntry records one event and the option chosen.
type EventEntry struct {
	Date    string `db:"date"`
	EventID string `db:"event_id"`
	Title   string `db:"title"`
	Option  string `db:"choice"`
}

// Open opens or creates a journal at path.
func Open(path string) (*Journal, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	j := &Journal{conn: conn}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ledger (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		treasury REAL NOT NULL,
		income REAL NOT NULL,
		expenses REAL NOT NULL,
		interest REAL NOT NULL,
		manpower INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		event_id TEXT NOT NULL,
		title TEXT NOT NULL,
		choice TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_date ON ledger(date);
	CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// RecordMonth appends a ledger row for s.
func (j *Journal) RecordMonth(ctx context.Context, s engine.NationState) error {
	_, err := j.conn.NamedExecContext(ctx,
		`INSERT INTO ledger (date, treasury, income, expenses, interest, manpower)
		 VALUES (:date, :treasury, :income, :expenses, :interest, :manpower)`,
		LedgerEntry{
			Date:     s.Date,
			Treasury: s.Treasury,
			Income:   s.MonthlyIncome,
			Expenses: s.MonthlyExpenses,
			Interest: s.LoanInterest(),
			Manpower: s.Manpower,
		})
	if err != nil {
		return fmt.Errorf("record month %s: %w", s.Date, err)
	}
	return nil
}

// RecordEvent appends an event row.
func (j *Journal) RecordEvent(ctx context.Context, date string, ev engine.Event, option string) error {
	_, err := j.conn.NamedExecContext(ctx,
		`INSERT INTO events (date, event_id, title, choice) VALUES (:date, :event_id, :title, :choice)`,
		EventEntry{Date: date, EventID: ev.ID, Title: ev.Title, Option: option})
	if err != nil {
		return fmt.Errorf("record event %s: %w", ev.ID, err)
	}
	return nil
}

// Ledger returns the newest limit ledger rows, oldest first.
func (j *Journal) Ledger(ctx context.Context, limit int) ([]LedgerEntry, error) {
	var rows []LedgerEntry
	err := j.conn.SelectContext(ctx, &rows,
		`SELECT date, treasury, income, expenses, interest, manpower FROM
		 (SELECT * FROM ledger ORDER BY id DESC LIMIT ?) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return rows, nil
}

// RecentEvents returns the newest limit events, newest first.
func (j *Journal) RecentEvents(ctx context.Context, limit int) ([]EventEntry, error) {
	var rows []EventEntry
	err := j.conn.SelectContext(ctx, &rows,
		`SELECT date, event_id, title, choice FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return rows, nil
}

// History rebuilds event cooldowns from the journal so a resumed campaign does not
// refire events it already saw. A non-empty until drops events dated after it, as
// when an older save is loaded.
func (j *Journal) History(ctx context.Context, until string) (engine.EventHistory, error) {
	var rows []EventEntry
	err := j.conn.SelectContext(ctx, &rows,
		`SELECT date, event_id, title, choice FROM events WHERE ? = '' OR date <= ? ORDER BY id ASC`, until, until)
	if err != nil {
		return engine.EventHistory{}, fmt.Errorf("read history: %w", err)
	}
	h := engine.EventHistory{}
	for _, r := range rows {
		ev, ok := engine.EventByID(r.EventID)
		if !ok {
			continue
		}
		h = h.Record(ev, engine.MonthIndex(r.Date))
	}
	return h, nil
}
