package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Ruszero01/EcoPaste-Sync-sub000/internal/logger"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/migrations"
	"github.com/Ruszero01/EcoPaste-Sync-sub000/models"
)

const itemsTable = "clipboard_items"

var itemColumns = []string{
	"id", "type", "grp", "value", "search", "favorite", "note",
	"create_time", "last_modified", "device_id", "checksum", "size", "deleted",
}

// sqliteStore is the sqlite-backed implementation of [LocalStore]. All
// queries are built with squirrel against the clipboard_items table.
type sqliteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLiteStore opens (or creates) the history database at dbPath, runs the
// embedded migrations and returns a ready [LocalStore].
func NewSQLiteStore(dbPath string, log *logger.Logger) (LocalStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if err = migrations.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate sqlite database: %w", err)
	}

	return &sqliteStore{db: db, log: log}, nil
}

func (s *sqliteStore) GetAllItems(ctx context.Context) ([]models.SyncItem, error) {
	query, args, err := sq.Select(itemColumns...).
		From(itemsTable).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select all query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.SyncItem, 0, 64)
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, rowsErr)
	}

	return items, nil
}

func (s *sqliteStore) GetItem(ctx context.Context, id string) (models.SyncItem, error) {
	query, args, err := sq.Select(itemColumns...).
		From(itemsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.SyncItem{}, fmt.Errorf("build select query: %w", err)
	}

	row := s.db.QueryRowContext(ctx, query, args...)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SyncItem{}, ErrItemNotFound
		}
		return models.SyncItem{}, err
	}

	return item, nil
}

func (s *sqliteStore) UpsertItem(ctx context.Context, item models.SyncItem) error {
	query, args, err := sq.Insert(itemsTable).
		Columns(itemColumns...).
		Values(
			item.ID, string(item.Type), string(item.Group), item.Value,
			item.Search, item.Favorite, item.Note, item.CreateTime,
			item.LastModified, item.DeviceID, item.Checksum, item.Size,
			item.Deleted,
		).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			grp = excluded.grp,
			value = excluded.value,
			search = excluded.search,
			favorite = excluded.favorite,
			note = excluded.note,
			create_time = excluded.create_time,
			last_modified = excluded.last_modified,
			device_id = excluded.device_id,
			checksum = excluded.checksum,
			size = excluded.size,
			deleted = excluded.deleted`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Err(err).Str("item_id", item.ID).Msg("failed to upsert clipboard item")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (s *sqliteStore) DeleteItem(ctx context.Context, id string) error {
	query, args, err := sq.Delete(itemsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Err(err).Str("item_id", id).Msg("failed to delete clipboard item")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.SyncItem, error) {
	var item models.SyncItem
	var itemType, group string

	err := row.Scan(
		&item.ID,
		&itemType,
		&group,
		&item.Value,
		&item.Search,
		&item.Favorite,
		&item.Note,
		&item.CreateTime,
		&item.LastModified,
		&item.DeviceID,
		&item.Checksum,
		&item.Size,
		&item.Deleted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SyncItem{}, err
		}
		return models.SyncItem{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	item.Type = models.ItemType(itemType)
	item.Group = models.Group(group)
	return item, nil
}
