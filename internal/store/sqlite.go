package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/hyperengineering/attire/internal/types"
	"github.com/hyperengineering/attire/internal/validation"
)

// SQLiteStore is the SQLite-backed catalog dataset.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore instance.
// It initializes the database with WAL mode, applies pragmas, and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them applied.
	db.SetMaxOpenConns(1)

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// enablePragmas sets SQLite pragmas for optimal performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ImportItems upserts a batch of items in one transaction.
// Items without an id get a ULID. Re-importing a deleted id restores it.
func (s *SQLiteStore) ImportItems(ctx context.Context, items []types.ClothingItem) (*ImportResult, error) {
	result := &ImportResult{IDs: make([]string, 0, len(items))}
	if len(items) == 0 {
		return result, nil
	}

	prepared := make([]types.ClothingItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = ulid.Make().String()
		}
		if errs := validation.ValidateClothingItem(i, item); len(errs) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidItem, errs[0].Error())
		}
		prepared[i] = item
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := tx.PrepareContext(ctx, `SELECT COUNT(*) FROM catalog_items WHERE id = ? AND deleted_at IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("prepare exists: %w", err)
	}
	defer exists.Close()

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_items (
			id, name, description, type, gender,
			body_shapes, occasions, localities,
			min_temp, max_temp, rain,
			style, color, fabric, tags,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			type = excluded.type,
			gender = excluded.gender,
			body_shapes = excluded.body_shapes,
			occasions = excluded.occasions,
			localities = excluded.localities,
			min_temp = excluded.min_temp,
			max_temp = excluded.max_temp,
			rain = excluded.rain,
			style = excluded.style,
			color = excluded.color,
			fabric = excluded.fabric,
			tags = excluded.tags,
			updated_at = excluded.updated_at,
			deleted_at = NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare upsert: %w", err)
	}
	defer upsert.Close()

	nowStr := s.now().Format(time.RFC3339)

	for _, item := range prepared {
		var n int
		if err := exists.QueryRowContext(ctx, item.ID).Scan(&n); err != nil {
			return nil, fmt.Errorf("check item %s: %w", item.ID, err)
		}

		shapes, err := encodeList(item.BodyShapeSuitability)
		if err != nil {
			return nil, err
		}
		occasions, err := encodeList(item.Occasion)
		if err != nil {
			return nil, err
		}
		localities, err := encodeList(item.Locality)
		if err != nil {
			return nil, err
		}
		tags, err := encodeList(item.Tags)
		if err != nil {
			return nil, err
		}

		_, err = upsert.ExecContext(ctx,
			item.ID, item.Name, item.Description, item.Type, item.Gender,
			shapes, occasions, localities,
			item.WeatherSuitability.MinTemp, item.WeatherSuitability.MaxTemp, item.WeatherSuitability.Rain,
			item.Style, item.Color, item.Fabric, tags,
			nowStr, nowStr,
		)
		if err != nil {
			return nil, fmt.Errorf("upsert item %s: %w", item.ID, err)
		}

		if n > 0 {
			result.Updated++
		} else {
			result.Inserted++
		}
		result.IDs = append(result.IDs, item.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return result, nil
}

const selectColumns = `
	SELECT id, name, description, type, gender,
	       body_shapes, occasions, localities,
	       min_temp, max_temp, rain,
	       style, color, fabric, tags
	FROM catalog_items`

// ListItems returns all live items in insertion order.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]types.ClothingItem, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE deleted_at IS NULL ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []types.ClothingItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return items, nil
}

// GetItem retrieves a live item by id.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*types.ClothingItem, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ? AND deleted_at IS NULL`, id)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan row: %w", err)
	}

	return item, nil
}

// DeleteItem soft-deletes an item so it drops out of the next snapshot.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	nowStr := s.now().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		UPDATE catalog_items SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, nowStr, nowStr, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountItems returns the number of live items.
func (s *SQLiteStore) CountItems(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog_items WHERE deleted_at IS NULL").Scan(&count)
	return count, err
}

// scanItem scans a row into a ClothingItem, decoding the JSON list columns.
func scanItem(scanner interface{ Scan(...any) error }) (*types.ClothingItem, error) {
	var item types.ClothingItem
	var shapes, occasions, localities, tags string

	err := scanner.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Type,
		&item.Gender,
		&shapes,
		&occasions,
		&localities,
		&item.WeatherSuitability.MinTemp,
		&item.WeatherSuitability.MaxTemp,
		&item.WeatherSuitability.Rain,
		&item.Style,
		&item.Color,
		&item.Fabric,
		&tags,
	)
	if err != nil {
		return nil, err
	}

	lists := []struct {
		raw  string
		dest *[]string
	}{
		{shapes, &item.BodyShapeSuitability},
		{occasions, &item.Occasion},
		{localities, &item.Locality},
		{tags, &item.Tags},
	}
	for _, l := range lists {
		if err := json.Unmarshal([]byte(l.raw), l.dest); err != nil {
			return nil, fmt.Errorf("parse list column: %w", err)
		}
	}

	return &item, nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal list: %w", err)
	}
	return string(b), nil
}
