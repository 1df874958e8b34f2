// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/danielhkuo/pickpair/db"
	"github.com/danielhkuo/pickpair/models"
	"github.com/danielhkuo/pickpair/store"
)

// checkViolation is the postgres SQLSTATE for a failed CHECK constraint
const checkViolation = "23514"

type itemModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Payload   string    `gorm:"column:payload"`
	Votes     int64     `gorm:"column:votes"`
	Wins      int64     `gorm:"column:wins"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (itemModel) TableName() string { return "item" }

func (m itemModel) toEntity() models.Item {
	return models.Item{ID: m.ID, Payload: m.Payload, Votes: m.Votes, Wins: m.Wins}
}

type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open connects to postgres through gorm, pings with a bounded timeout and
// creates the schema
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := db.CreateSchema(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return New(gdb, logger), nil
}

func New(gdb *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: gdb, logger: logger}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) FetchAll(ctx context.Context) ([]models.Item, error) {
	var rows []itemModel
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, s.logError("item_store_fetch_all_failed", classify("fetch items", err))
	}

	items := make([]models.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (s *Store) ApplyDelta(ctx context.Context, id string, voteDelta, winDelta int64) error {
	if err := store.ValidateDelta(id, voteDelta, winDelta); err != nil {
		return err
	}
	return applyDelta(s.db.WithContext(ctx), models.Delta{ItemID: id, Votes: voteDelta, Wins: winDelta})
}

// ApplyDeltas applies every delta in one transaction
func (s *Store) ApplyDeltas(ctx context.Context, deltas []models.Delta) error {
	for _, d := range deltas {
		if err := store.ValidateDelta(d.ItemID, d.Votes, d.Wins); err != nil {
			return err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range deltas {
			if err := applyDelta(tx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if isClassified(err) {
		return err
	}
	return s.logError("item_store_apply_deltas_failed", classify("apply deltas", err))
}

// Seed inserts items that do not exist yet
func (s *Store) Seed(ctx context.Context, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]itemModel, 0, len(items))
	for _, item := range items {
		if err := store.ValidateItem(item); err != nil {
			return err
		}
		rows = append(rows, itemModel{ID: item.ID, Payload: item.Payload, Votes: item.Votes, Wins: item.Wins})
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&rows).
		Error
	if err != nil {
		return s.logError("item_store_seed_failed", classify("seed items", err))
	}
	return nil
}

func applyDelta(tx *gorm.DB, d models.Delta) error {
	res := tx.Model(&itemModel{}).
		Where("id = ?", d.ItemID).
		UpdateColumns(map[string]any{
			"votes": gorm.Expr("votes + ?", d.Votes),
			"wins":  gorm.Expr("wins + ?", d.Wins),
		})
	if res.Error != nil {
		return classify("apply delta to "+d.ItemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrItemNotFound, d.ItemID)
	}
	return nil
}

func (s *Store) logError(event string, err error) error {
	s.logger.Error("item store operation failed",
		"event", event,
		"module", "store/gormstore",
		"error", err.Error(),
	)
	return err
}

func isClassified(err error) bool {
	return errors.Is(err, models.ErrItemNotFound) ||
		errors.Is(err, models.ErrInvalidDelta) ||
		errors.Is(err, models.ErrStoreUnavailable)
}

// classify maps a pgx/gorm error onto the store error kinds
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == checkViolation {
		return fmt.Errorf("%s: %w: %w", op, models.ErrInvalidDelta, err)
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%s: timed out: %w: %w", op, models.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
}
