package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JMitchell7425/Trading-Bot/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS trade_events (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	ts     TEXT    NOT NULL,
	symbol TEXT    NOT NULL,
	action TEXT    NOT NULL,
	price  REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trade_events_symbol ON trade_events(symbol, id);

CREATE TABLE IF NOT EXISTS portfolio_log (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	ts     TEXT NOT NULL,
	equity REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS high_water_marks (
	symbol TEXT PRIMARY KEY,
	price  REAL NOT NULL
);
`

// SQLite backs all three storage roles with a single database file.
// Writes are serialized with a mutex; sqlite handles durability.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// One writer at a time keeps modernc/sqlite happy under concurrency.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// Append writes a trade event. Events are never updated or deleted.
func (s *SQLite) Append(ev types.TradeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO trade_events (ts, symbol, action, price) VALUES (?, ?, ?, ?)`,
		ev.Timestamp.UTC().Format(time.RFC3339Nano), ev.Symbol, string(ev.Action), ev.Price,
	)
	return err
}

// Recent returns the newest n trade events, newest first.
func (s *SQLite) Recent(n int) ([]types.TradeEvent, error) {
	rows, err := s.db.Query(
		`SELECT ts, symbol, action, price FROM trade_events ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.TradeEvent
	for rows.Next() {
		var ts, symbol, action string
		var price float64
		if err := rows.Scan(&ts, &symbol, &action, &price); err != nil {
			return nil, err
		}
		when, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("store: bad timestamp %q: %w", ts, err)
		}
		out = append(out, types.TradeEvent{
			Timestamp: when,
			Symbol:    symbol,
			Action:    types.Action(action),
			Price:     price,
		})
	}
	return out, rows.Err()
}

// AppendEquity records one portfolio sample.
func (s *SQLite) AppendEquity(t time.Time, equity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO portfolio_log (ts, equity) VALUES (?, ?)`,
		t.UTC().Format(time.RFC3339Nano), equity,
	)
	return err
}

// RecentEquity returns the newest n samples, oldest first (chart order).
func (s *SQLite) RecentEquity(n int) ([]types.PortfolioSample, error) {
	rows, err := s.db.Query(
		`SELECT ts, equity FROM (
			SELECT id, ts, equity FROM portfolio_log ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.PortfolioSample
	for rows.Next() {
		var ts string
		var equity float64
		if err := rows.Scan(&ts, &equity); err != nil {
			return nil, err
		}
		when, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("store: bad timestamp %q: %w", ts, err)
		}
		out = append(out, types.PortfolioSample{Timestamp: when, Equity: equity})
	}
	return out, rows.Err()
}

// Mark returns the trailing reference price for a symbol.
func (s *SQLite) Mark(symbol string) (float64, bool, error) {
	var price float64
	err := s.db.QueryRow(
		`SELECT price FROM high_water_marks WHERE symbol = ?`, symbol).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return price, true, nil
}

// SetMark upserts the trailing reference price for a symbol.
func (s *SQLite) SetMark(symbol string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO high_water_marks (symbol, price) VALUES (?, ?)
		 ON CONFLICT(symbol) DO UPDATE SET price = excluded.price`,
		symbol, price,
	)
	return err
}

// ClearMark removes the trailing reference for a symbol.
func (s *SQLite) ClearMark(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM high_water_marks WHERE symbol = ?`, symbol)
	return err
}

// Portfolio adapts the sqlite store to the PortfolioLog interface.
func (s *SQLite) Portfolio() PortfolioLog { return portfolioAdapter{s} }

type portfolioAdapter struct{ s *SQLite }

func (p portfolioAdapter) Append(t time.Time, equity float64) error {
	return p.s.AppendEquity(t, equity)
}

func (p portfolioAdapter) Recent(n int) ([]types.PortfolioSample, error) {
	return p.s.RecentEquity(n)
}
