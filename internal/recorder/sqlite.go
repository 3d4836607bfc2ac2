package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"RugTycoon/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists gameplay history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external tooling can read history while the game writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ticks (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			tick         INTEGER NOT NULL,
			day          INTEGER NOT NULL,
			net_worth    REAL,
			cash         REAL,
			rugged_count INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticks_tick ON ticks(tick)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			trade_id       TEXT,
			tick           INTEGER NOT NULL,
			symbol         TEXT,
			type           TEXT,
			units          REAL,
			price_per_unit REAL,
			total_usd      REAL,
			fee            REAL,
			realized_pnl   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_tick ON trades(tick)`,

		`CREATE TABLE IF NOT EXISTS rug_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			tick      INTEGER NOT NULL,
			symbol    TEXT,
			score     REAL,
			price     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rug_tick ON rug_events(tick)`,

		`CREATE TABLE IF NOT EXISTS order_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			tick          INTEGER NOT NULL,
			order_id      TEXT,
			symbol        TEXT,
			side          TEXT,
			status        TEXT,
			trigger_price REAL,
			units         REAL,
			reason        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_tick ON order_events(tick)`,

		`CREATE TABLE IF NOT EXISTS social_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			tick      INTEGER NOT NULL,
			kind      TEXT,
			symbol    TEXT,
			sentiment TEXT,
			magnitude REAL,
			detail    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_social_tick ON social_events(tick)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTick(row *TickRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO ticks
		(timestamp, tick, day, net_worth, cash, rugged_count)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), row.Tick, row.Day, row.NetWorthUSD, row.CashUSD, row.RuggedCount,
	)
	return err
}

func (r *SQLiteRecorder) RecordTrade(t *model.Trade, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trades
		(timestamp, trade_id, tick, symbol, type, units, price_per_unit, total_usd, fee, realized_pnl)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), t.ID, t.Tick, symbol, string(t.Type),
		t.Units, t.PricePerUnit, t.TotalUSD, t.Fee, t.RealizedPnL,
	)
	return err
}

func (r *SQLiteRecorder) RecordRug(row *RugRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO rug_events
		(timestamp, tick, symbol, score, price)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), row.Tick, row.Symbol, row.Score, row.Price,
	)
	return err
}

func (r *SQLiteRecorder) RecordOrder(row *OrderRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO order_events
		(timestamp, tick, order_id, symbol, side, status, trigger_price, units, reason)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), row.Tick, row.OrderID, row.Symbol, row.Side,
		row.Status, row.TriggerPrice, row.Units, row.Reason,
	)
	return err
}

func (r *SQLiteRecorder) RecordSocial(row *SocialRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO social_events
		(timestamp, tick, kind, symbol, sentiment, magnitude, detail)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), row.Tick, row.Kind, row.Symbol, row.Sentiment, row.Magnitude, row.Detail,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
