// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/pickpair/db"
	"github.com/danielhkuo/pickpair/models"
	"github.com/danielhkuo/pickpair/store"
)

// Supported database/sql drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// checkViolation is the postgres SQLSTATE for a failed CHECK constraint
const checkViolation = "23514"

type Store struct {
	db     *sql.DB
	driver string
}

// Open connects, verifies the connection and creates the schema
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// sqlite allows a single writer, and ":memory:" is per connection
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return New(conn, driver), nil
}

// New wraps an existing connection whose schema is already in place
func New(conn *sql.DB, driver string) *Store {
	return &Store{db: conn, driver: driver}
}

func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying connection
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) FetchAll(ctx context.Context) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payload, votes, wins FROM item ORDER BY id
	`)
	if err != nil {
		return nil, classify("fetch items", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Payload, &item.Votes, &item.Wins); err != nil {
			return nil, classify("scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("fetch items", err)
	}

	return items, nil
}

// ApplyDelta increments the counters server-side in a single statement
func (s *Store) ApplyDelta(ctx context.Context, id string, voteDelta, winDelta int64) error {
	if err := store.ValidateDelta(id, voteDelta, winDelta); err != nil {
		return err
	}
	return s.applyDelta(ctx, s.db, models.Delta{ItemID: id, Votes: voteDelta, Wins: winDelta})
}

// ApplyDeltas applies every delta inside one transaction
func (s *Store) ApplyDeltas(ctx context.Context, deltas []models.Delta) error {
	for _, d := range deltas {
		if err := store.ValidateDelta(d.ItemID, d.Votes, d.Wins); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer tx.Rollback()

	for _, d := range deltas {
		if err := s.applyDelta(ctx, tx, d); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

// Seed inserts items that do not exist yet
func (s *Store) Seed(ctx context.Context, items []models.Item) error {
	for _, item := range items {
		if err := store.ValidateItem(item); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer tx.Rollback()

	query := s.rebind(`
		INSERT INTO item (id, payload, votes, wins)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`)
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, query, item.ID, item.Payload, item.Votes, item.Wins); err != nil {
			return classify("seed item "+item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) applyDelta(ctx context.Context, ex execer, d models.Delta) error {
	res, err := ex.ExecContext(ctx, s.rebind(`
		UPDATE item SET votes = votes + ?, wins = wins + ? WHERE id = ?
	`), d.Votes, d.Wins, d.ItemID)
	if err != nil {
		return classify("apply delta to "+d.ItemID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return classify("apply delta to "+d.ItemID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrItemNotFound, d.ItemID)
	}
	return nil
}

// rebind turns ? placeholders into $1, $2, ... for postgres
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// classify maps a driver error onto the store error kinds
func classify(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == checkViolation {
		return fmt.Errorf("%s: %w: %w", op, models.ErrInvalidDelta, err)
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
}
