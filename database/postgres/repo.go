// Package postgres implements mediastore.MetadataStore on PostgreSQL using a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
	"github.com/YamesYamerson/secure-multimedia-storage/database/internal"
)

const fileColumns = `file_id, owner_id, declared_name, category, declared_size, declared_content_type,
	object_key, title, description, tags, status, created_at, last_modified, version`

type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewRepo(pool *pgxpool.Pool, tables mediastore.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{pool: pool, tableName: quoteTable(tables.Files)}, nil
}

func quoteTable(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) Create(ctx context.Context, rec mediastore.FileRecord) (mediastore.FileRecord, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (`+fileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT DO NOTHING
		RETURNING `+fileColumns, r.tableName)

	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}

	row := r.pool.QueryRow(ctx, query,
		rec.FileID, rec.OwnerID, rec.DeclaredName, string(rec.Category), rec.DeclaredSize, rec.DeclaredContentType,
		rec.ObjectKey, rec.Title, rec.Description, tags, string(rec.Status), rec.CreatedAt, rec.LastModified, rec.Version,
	)

	created, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mediastore.FileRecord{}, fmt.Errorf("create %s: %w", rec.FileID, mediastore.ErrConflict)
		}
		return mediastore.FileRecord{}, fmt.Errorf("create %s: %w", rec.FileID, err)
	}

	return created, nil
}

func (r *Repo) Get(ctx context.Context, ownerID, fileID string) (mediastore.FileRecord, error) {
	query := fmt.Sprintf(`
		SELECT `+fileColumns+`
		FROM %s
		WHERE owner_id = $1 AND file_id = $2
	`, r.tableName)

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, ownerID, fileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mediastore.FileRecord{}, mediastore.ErrNotFound
		}
		return mediastore.FileRecord{}, fmt.Errorf("get: %w", err)
	}

	return rec, nil
}

func (r *Repo) Complete(ctx context.Context, ownerID, fileID string, now time.Time) (mediastore.FileRecord, bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = 'completed', last_modified = $3, version = version + 1
		WHERE owner_id = $1 AND file_id = $2 AND status = 'uploading'
		RETURNING `+fileColumns, r.tableName)

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, ownerID, fileID, now))
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
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
	conds := []string{"owner_id = $1"}
	args := []any{ownerID}

	if q.Status != "" {
		args = append(args, string(q.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	return r.listWhere(ctx, "list", conds, args, q.Cursor, q.Limit)
}

func (r *Repo) ListStale(ctx context.Context, q mediastore.StaleQuery) (mediastore.ListResult, error) {
	conds := []string{"status = 'uploading'", "created_at < $1"}
	args := []any{q.Before}

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
		args = append(args, cursor.CreatedAt, cursor.FileID)
		conds = append(conds, fmt.Sprintf("(created_at, file_id) > ($%d, $%d)", len(args)-1, len(args)))
	}

	args = append(args, limit+1)
	query := fmt.Sprintf(`
		SELECT `+fileColumns+`
		FROM %s
		WHERE %s
		ORDER BY created_at, file_id
		LIMIT $%d
	`, r.tableName, strings.Join(conds, " AND "), len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return mediastore.ListResult{}, fmt.Errorf("%s: %w", opName, err)
	}
	defer rows.Close()

	items := make([]mediastore.FileRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return mediastore.ListResult{}, fmt.Errorf("%s: scan: %w", opName, err)
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

func scanRecord(row pgx.Row) (mediastore.FileRecord, error) {
	var rec mediastore.FileRecord
	var category, status string

	err := row.Scan(
		&rec.FileID, &rec.OwnerID, &rec.DeclaredName, &category, &rec.DeclaredSize, &rec.DeclaredContentType,
		&rec.ObjectKey, &rec.Title, &rec.Description, &rec.Tags, &status, &rec.CreatedAt, &rec.LastModified, &rec.Version,
	)
	if err != nil {
		return mediastore.FileRecord{}, err
	}

	rec.Category = mediastore.Category(category)
	rec.Status = mediastore.Status(status)
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.LastModified = rec.LastModified.UTC()
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	return rec, nil
}
