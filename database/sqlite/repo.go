// Package sqlite implements mediastore.MetadataStore on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/database/internal"
)

// timeFormat is fixed-width so that text comparison matches time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

const fileColumns = `file_id, owner_id, declared_name, category, declared_size, declared_content_type,
	object_key, title, description, tags, status, created_at, last_modified, version`

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeFormat, s)
}

type Repo struct {
	db        *sql.DB
	tableName string
}

func NewRepo(db *sql.DB, tables mediastore.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{db: db, tableName: quoteIdentifier(tables.Files)}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repo) Create(ctx context.Context, rec mediastore.FileRecord) (mediastore.FileRecord, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (`+fileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
		RETURNING `+fileColumns, r.tableName)

	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return mediastore.FileRecord{}, fmt.Errorf("create %s: encode tags: %w", rec.FileID, err)
	}

	row := r.db.QueryRowContext(ctx, query,
		rec.FileID, rec.OwnerID, rec.DeclaredName, string(rec.Category), rec.DeclaredSize, rec.DeclaredContentType,
		rec.ObjectKey, rec.Title, rec.Description, string(tagsJSON), string(rec.Status),
		formatTime(rec.CreatedAt), formatTime(rec.LastModified), rec.Version,
	)

	created, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mediastore.FileRecord{}, fmt.Errorf("create %s: %w", rec.FileID, mediastore.ErrConflict)
		}
		return mediastore.FileRecord{}, fmt.Errorf("create %s: %w", rec.FileID, err)
	}

	return created, nil
}

func (r *Repo) Get(ctx context.Context, ownerID, fileID string) (mediastore.FileRecord, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT `+fileColumns+`
		FROM %s
		WHERE owner_id = ? AND file_id = ?`, r.tableName)

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, ownerID, fileID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mediastore.FileRecord{}, mediastore.ErrNotFound
		}
		return mediastore.FileRecord{}, fmt.Errorf("get: %w", err)
	}

	return rec, nil
}

func (r *Repo) Complete(ctx context.Context, ownerID, fileID string, now time.Time) (mediastore.FileRecord, bool, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`UPDATE %s
		SET status = 'completed', last_modified = ?, version = version + 1
		WHERE owner_id = ? AND file_id = ? AND status = 'uploading'
		RETURNING `+fileColumns, r.tableName)

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, formatTime(now), ownerID, fileID))
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return mediastore.FileRecord{}, false, fmt.Errorf("complete: %w", err)
	}

	// Nothing transitioned: either already completed or not visible to this owner.
	existing, err := r.Get(ctx, ownerID, fileID)
	if err != nil {
		return mediastore.FileRecord{}, false, fmt.Errorf("complete: %w", err)
	}
	if existing.Status != mediastore.StatusCompleted {
		return mediastore.FileRecord{}, false, fmt.Errorf("complete: %w", mediastore.ErrNotFound)
	}

	return existing, false, nil
}

func (r *Repo) List(ctx context.Context, ownerID string, q mediastore.ListQuery) (mediastore.ListResult, error) {
	conds := []string{"owner_id = ?"}
	args := []any{ownerID}

	if q.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(q.Status))
	}

	return r.listWhere(ctx, "list", conds, args, q.Cursor, q.Limit)
}

func (r *Repo) ListStale(ctx context.Context, q mediastore.StaleQuery) (mediastore.ListResult, error) {
	conds := []string{"status = 'uploading'", "created_at < ?"}
	args := []any{formatTime(q.Before)}

	return r.listWhere(ctx, "list stale", conds, args, q.Cursor, q.Limit)
}

func (r *Repo) listWhere(ctx context.Context, opName string, conds []string, args []any, rawCursor string, limit int) (mediastore.ListResult, error) {
	cursor, err := internal.DecodeCursor(rawCursor)
	if err != nil {
		return mediastore.ListResult{}, fmt.Errorf("%s: %w", opName, err)
	}

	if limit <= 0 {
		limit = mediastore.DefaultListLimit
	}

	if rawCursor != "" {
		conds = append(conds, "(created_at, file_id) > (?, ?)")
		args = append(args, formatTime(cursor.CreatedAt), cursor.FileID)
	}

	args = append(args, limit+1)
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated, conditions are constants
		`SELECT `+fileColumns+`
		FROM %s
		WHERE %s
		ORDER BY created_at, file_id
		LIMIT ?`, r.tableName, strings.Join(conds, " AND "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return mediastore.ListResult{}, fmt.Errorf("%s: %w", opName, err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]mediastore.FileRecord, 0, limit)
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return mediastore.ListResult{}, fmt.Errorf("%s: scan: %w", opName, scanErr)
		}
		items = append(items, rec)
	}

	if err := rows.Err(); err != nil {
		return mediastore.ListResult{}, fmt.Errorf("%s: rows: %w", opName, err)
	}

	var nextCursor string
	if len(items) > limit {
		// Cursor points to the last item of the current page
		last := items[limit-1]
		nextCursor = internal.EncodeCursor(last.CreatedAt, last.FileID)
		items = items[:limit]
	}

	return mediastore.ListResult{Items: items, NextCursor: nextCursor}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (mediastore.FileRecord, error) {
	var rec mediastore.FileRecord
	var category, status, tags, createdAt, lastModified string

	err := row.Scan(
		&rec.FileID, &rec.OwnerID, &rec.DeclaredName, &category, &rec.DeclaredSize, &rec.DeclaredContentType,
		&rec.ObjectKey, &rec.Title, &rec.Description, &tags, &status, &createdAt, &lastModified, &rec.Version,
	)
	if err != nil {
		return mediastore.FileRecord{}, err
	}

	rec.Category = mediastore.Category(category)
	rec.Status = mediastore.Status(status)

	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return mediastore.FileRecord{}, fmt.Errorf("parse tags: %w", err)
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return mediastore.FileRecord{}, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.LastModified, err = parseTime(lastModified); err != nil {
		return mediastore.FileRecord{}, fmt.Errorf("parse last_modified: %w", err)
	}

	return rec, nil
}
