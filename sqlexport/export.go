// Package sqlexport copies ledger snapshots into a SQLite database for ad hoc
// queries.
//
// Every export is a new snapshot identified by a ULID, earlier snapshots are
// kept. Amounts are stored as decimal text to stay exact, dates as
// YYYY-MM-DD text, enums by name.
package sqlexport

import (
	"context"
	cryptoRand "crypto/rand"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/date"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Snapshot describes one export.
type Snapshot struct {
	ID        string
	CreatedAt time.Time
	Source    string
	Trades    int
}

// Exporter writes snapshots to a SQLite database. It is not safe for
// concurrent use.
type Exporter struct {
	db      *sql.DB
	log     zerolog.Logger
	entropy io.Reader
	now     func() time.Time
}

// Open opens or creates the database at path and brings its schema up to date.
func Open(path string, log zerolog.Logger) (*Exporter, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("could not open export database %q: %w", path, err)
	}
	// a single connection keeps SQLite from locking itself.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate export database %q: %w", path, err)
	}

	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Exporter{
		db:      db,
		log:     log,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
		now:     time.Now,
	}, nil
}

func runMigrations(db *sql.DB, log zerolog.Logger) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create sqlite migration driver: %w", err)
	}
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("could not read migrations: %w", err)
	}
	// m is not closed: closing it would close db.
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("migration instance creation failed: %w", err)
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug().Msg("export database schema up to date")
			return nil
		}
		return err
	}
	log.Info().Msg("export database schema migrated")
	return nil
}

// Close closes the database.
func (e *Exporter) Close() error { return e.db.Close() }

// Export writes the ledger as a new snapshot. source names where the ledger
// comes from, typically its file path.
func (e *Exporter) Export(ctx context.Context, l *tradelog.Ledger, source string) (Snapshot, error) {
	now := e.now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), e.entropy)
	if err != nil {
		return Snapshot{}, fmt.Errorf("could not create snapshot id: %w", err)
	}
	snap := Snapshot{ID: id.String(), CreatedAt: now, Source: source, Trades: l.Len()}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("could not start export: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, created_at, source, trades) VALUES (?, ?, ?, ?)`,
		snap.ID, now.Format(time.RFC3339), snap.Source, snap.Trades,
	); err != nil {
		return Snapshot{}, fmt.Errorf("could not insert snapshot: %w", err)
	}

	w, err := newWriter(ctx, tx, snap.ID)
	if err != nil {
		return Snapshot{}, err
	}
	defer w.close()

	for i, t := range l.Trades() {
		if err := w.trade(ctx, i+1, t); err != nil {
			return Snapshot{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("could not commit export: %w", err)
	}
	e.log.Info().Str("snapshot", snap.ID).Int("trades", snap.Trades).Msg("ledger exported")
	return snap, nil
}

// Snapshots lists the snapshots of the database, oldest first.
func (e *Exporter) Snapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT id, created_at, source, trades FROM snapshots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("could not list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var s Snapshot
		var created string
		if err := rows.Scan(&s.ID, &created, &s.Source, &s.Trades); err != nil {
			return nil, fmt.Errorf("could not read snapshot: %w", err)
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, created)
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}

// writer holds the prepared statements of one export.
type writer struct {
	snapshot string
	trades   *sql.Stmt
	txs      *sql.Stmt
	legs     *sql.Stmt
}

func newWriter(ctx context.Context, tx *sql.Tx, snapshot string) (*writer, error) {
	w := &writer{snapshot: snapshot}
	var err error
	if w.trades, err = tx.PrepareContext(ctx, `INSERT INTO trades
		(snapshot_id, trade_no, symbol, name, category, is_open, next_leg_id, future_expiry,
		 buying_power, notes, acb, open_shares, open_futures, earliest_dte, bp_start, bp_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`); err != nil {
		return nil, fmt.Errorf("could not prepare trade insert: %w", err)
	}
	if w.txs, err = tx.PrepareContext(ctx, `INSERT INTO transactions
		(snapshot_id, trade_no, tx_no, date, description, kind, quantity, price, multiplier, fees, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`); err != nil {
		w.close()
		return nil, fmt.Errorf("could not prepare transaction insert: %w", err)
	}
	if w.legs, err = tx.PrepareContext(ctx, `INSERT INTO legs
		(snapshot_id, trade_no, tx_no, leg_no, leg_id, back_pointer_id, original_quantity, open_quantity,
		 expiry, strike, put_call, action, kind, dte)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`); err != nil {
		w.close()
		return nil, fmt.Errorf("could not prepare leg insert: %w", err)
	}
	return w, nil
}

func (w *writer) close() {
	for _, s := range []*sql.Stmt{w.trades, w.txs, w.legs} {
		if s != nil {
			s.Close()
		}
	}
}

func (w *writer) trade(ctx context.Context, no int, t *tradelog.Trade) error {
	var earliest any
	if t.EarliestDTE != tradelog.NoDTE {
		earliest = t.EarliestDTE
	}
	if _, err := w.trades.ExecContext(ctx, w.snapshot, no,
		t.TickerSymbol, t.TickerName, t.Category, t.IsOpen, t.NextLegID, nullDate(t.FutureExpiry),
		t.BuyingPower.String(), t.Notes, t.ACB.String(), t.OpenShares, t.OpenFutures, earliest,
		nullDate(t.BPStart), nullDate(t.BPEnd),
	); err != nil {
		return fmt.Errorf("could not insert trade %d %s: %w", no, t.TickerSymbol, err)
	}

	for i, tx := range t.Transactions {
		txNo := i + 1
		if _, err := w.txs.ExecContext(ctx, w.snapshot, no, txNo,
			nullDate(tx.Date), tx.Description, tx.Kind.String(), tx.Quantity,
			tx.Price.String(), tx.Multiplier.String(), tx.Fees.String(), tx.Total.String(),
		); err != nil {
			return fmt.Errorf("could not insert transaction %d of trade %d: %w", txNo, no, err)
		}
		for j, leg := range tx.Legs {
			var back, dte any
			if leg.BackPointerID != 0 {
				back = leg.BackPointerID
			}
			if leg.Kind == tradelog.Options && leg.IsOpen() && leg.DTE != tradelog.NoDTE {
				dte = leg.DTE
			}
			if _, err := w.legs.ExecContext(ctx, w.snapshot, no, txNo, j+1,
				leg.ID, back, leg.OriginalQuantity, leg.OpenQuantity, nullDate(leg.Expiry),
				leg.Strike, leg.PutCall.String(), leg.Action.String(), leg.Kind.String(), dte,
			); err != nil {
				return fmt.Errorf("could not insert leg %d of trade %d: %w", leg.ID, no, err)
			}
		}
	}
	return nil
}

// nullDate stores the zero date as NULL.
func nullDate(d date.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}
