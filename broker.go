package mediastore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 1000
)

// MetadataStore persists FileRecords. Every lookup is scoped by owner, so a
// record that exists under another owner is indistinguishable from one that
// does not exist at all.
//
// Implementations must be safe for concurrent use. Create and Complete must be
// atomic with respect to concurrent callers on the same key.
type MetadataStore interface {
	// Create inserts rec if no record exists for (rec.OwnerID, rec.FileID).
	//
	// Returns:
	//   - FileRecord: the stored record
	//   - error: ErrConflict if the key is taken (the existing record is left
	//     untouched), or other database errors
	Create(ctx context.Context, rec FileRecord) (FileRecord, error)

	// Get returns the record for (ownerID, fileID).
	//
	// Returns:
	//   - error: ErrNotFound if absent or owned by someone else
	Get(ctx context.Context, ownerID, fileID string) (FileRecord, error)

	// Complete moves an uploading record to completed, bumping its version and
	// last-modified time to now.
	//
	// Returns:
	//   - FileRecord: the record after the call
	//   - bool: true if this call performed the transition, false if the record
	//     was already completed
	//   - error: ErrNotFound if absent or owned by someone else
	//
	// Complete never creates a record.
	Complete(ctx context.Context, ownerID, fileID string, now time.Time) (FileRecord, bool, error)

	// List returns one page of ownerID's records ordered by creation time.
	List(ctx context.Context, ownerID string, q ListQuery) (ListResult, error)

	// ListStale returns one page of records of any owner still uploading and
	// created before q.Before.
	ListStale(ctx context.Context, q StaleQuery) (ListResult, error)
}

// URLIssuer signs capability URLs against the object store.
//
// The lifetime of issued URLs is fixed when the issuer is built. Failures are
// returned wrapped with ErrDependency; a nil error always comes with a
// non-empty URL.
type URLIssuer interface {
	Issue(ctx context.Context, req CapabilityRequest) (Capability, error)
}

// Clock returns the current time.
type Clock func() time.Time

// BrokerConfig holds configuration options for UploadBroker.
type BrokerConfig struct {
	// StaleAfter is how long a record may stay uploading before it is reported
	// by StaleUploads. Usually the capability URL lifetime.
	StaleAfter time.Duration
	Clock      Clock // defaults to time.Now
}

// UploadBroker orchestrates validation, id generation, URL issuance and
// metadata persistence. It holds no mutable state.
type UploadBroker struct {
	store      MetadataStore
	issuer     URLIssuer
	staleAfter time.Duration
	now        Clock
}

func NewUploadBroker(store MetadataStore, issuer URLIssuer, cfg BrokerConfig) (*UploadBroker, error) {
	if store == nil {
		return nil, errors.New("new upload broker: metadata store is required")
	}
	if issuer == nil {
		return nil, errors.New("new upload broker: url issuer is required")
	}

	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = time.Hour
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &UploadBroker{
		store:      store,
		issuer:     issuer,
		staleAfter: staleAfter,
		now:        now,
	}, nil
}

// RequestUpload validates a declared file, registers an uploading record for
// it and returns a write URL bound to the inferred content type.
//
// The steps run in a fixed order:
//  1. Validate the declared file; violations return *ValidationError
//  2. Derive the file id and object key
//  3. Issue the write URL
//  4. Create the record
//
// Nothing is persisted when validation or URL issuance fails. A conflict on
// create means the id generator collided and is reported as ErrDependency.
func (b *UploadBroker) RequestUpload(ctx context.Context, ownerID string, req UploadRequest) (UploadTicket, error) {
	if err := ctx.Err(); err != nil {
		return UploadTicket{}, fmt.Errorf("request upload: %w", err)
	}

	if ownerID == "" {
		return UploadTicket{}, fmt.Errorf("request upload: %w", ErrUnauthorized)
	}

	if violations := Validate(req.File.Name, req.File.Size, req.File.ContentType); len(violations) > 0 {
		return UploadTicket{}, fmt.Errorf("request upload: %w", &ValidationError{Violations: violations})
	}

	now := b.now().UTC()
	fileID := NewFileID(ownerID, req.File.Name, now)
	key := ObjectKey(ownerID, fileID, req.File.Name)

	capability, err := b.issue(ctx, CapabilityRequest{
		ObjectKey:   key,
		ContentType: ContentTypeFor(req.File.Name),
		Operation:   OperationWrite,
	})
	if err != nil {
		return UploadTicket{}, fmt.Errorf("request upload %s: %w", fileID, err)
	}

	declaredType := req.File.ContentType
	if declaredType == "" {
		declaredType = DefaultContentType
	}

	title := strings.TrimSpace(req.Metadata.Title)
	if title == "" {
		title = req.File.Name
	}

	rec := FileRecord{
		FileID:              fileID,
		OwnerID:             ownerID,
		DeclaredName:        req.File.Name,
		Category:            CategoryFor(req.File.Name),
		DeclaredSize:        req.File.Size,
		DeclaredContentType: declaredType,
		ObjectKey:           key,
		Title:               title,
		Description:         req.Metadata.Description,
		Tags:                normalizeTags(req.Metadata.Tags),
		Status:              StatusUploading,
		CreatedAt:           now,
		LastModified:        now,
		Version:             1,
	}

	if _, err := b.store.Create(ctx, rec); err != nil {
		return UploadTicket{}, dependencyError("request upload "+fileID, err)
	}

	slog.InfoContext(ctx, "upload requested", "owner_id", ownerID, "file_id", fileID, "category", rec.Category)

	return UploadTicket{
		UploadURL: capability.URL,
		FileID:    fileID,
		ExpiresIn: capability.ExpiresIn,
	}, nil
}

// ConfirmUpload marks the caller's file as completed. Confirming an already
// completed file succeeds with Changed set to false.
func (b *UploadBroker) ConfirmUpload(ctx context.Context, ownerID, fileID string) (ConfirmResult, error) {
	if err := ctx.Err(); err != nil {
		return ConfirmResult{}, fmt.Errorf("confirm upload: %w", err)
	}

	if ownerID == "" {
		return ConfirmResult{}, fmt.Errorf("confirm upload: %w", ErrUnauthorized)
	}

	if fileID == "" {
		return ConfirmResult{}, fmt.Errorf("confirm upload: %w: file id cannot be empty", ErrInvalidInput)
	}

	rec, changed, err := b.store.Complete(ctx, ownerID, fileID, b.now().UTC())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ConfirmResult{}, fmt.Errorf("confirm upload %s: %w", fileID, err)
		}
		return ConfirmResult{}, dependencyError("confirm upload "+fileID, err)
	}

	if changed {
		slog.InfoContext(ctx, "upload confirmed", "owner_id", ownerID, "file_id", fileID)
	}

	return ConfirmResult{Record: rec, Changed: changed}, nil
}

// RequestDownload returns a read URL for the caller's file together with its
// record. The URL makes the object store serve the file as an attachment
// named after the declared name.
//
// Downloads are not gated on status: an uploading record still gets a URL,
// which fails at the object store if nothing was uploaded.
func (b *UploadBroker) RequestDownload(ctx context.Context, ownerID, fileID string) (DownloadTicket, error) {
	if err := ctx.Err(); err != nil {
		return DownloadTicket{}, fmt.Errorf("request download: %w", err)
	}

	if ownerID == "" {
		return DownloadTicket{}, fmt.Errorf("request download: %w", ErrUnauthorized)
	}

	if fileID == "" {
		return DownloadTicket{}, fmt.Errorf("request download: %w: file id cannot be empty", ErrInvalidInput)
	}

	rec, err := b.store.Get(ctx, ownerID, fileID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DownloadTicket{}, fmt.Errorf("request download %s: %w", fileID, err)
		}
		return DownloadTicket{}, dependencyError("request download "+fileID, err)
	}

	capability, err := b.issue(ctx, CapabilityRequest{
		ObjectKey:    rec.ObjectKey,
		ContentType:  ContentTypeFor(rec.DeclaredName),
		DownloadName: rec.DeclaredName,
		Operation:    OperationRead,
	})
	if err != nil {
		return DownloadTicket{}, fmt.Errorf("request download %s: %w", fileID, err)
	}

	return DownloadTicket{
		DownloadURL: capability.URL,
		File:        rec,
		ExpiresIn:   capability.ExpiresIn,
	}, nil
}

// ListFiles returns one page of the caller's records, oldest first.
func (b *UploadBroker) ListFiles(ctx context.Context, ownerID string, q ListQuery) (ListResult, error) {
	if err := ctx.Err(); err != nil {
		return ListResult{}, fmt.Errorf("list files: %w", err)
	}

	if ownerID == "" {
		return ListResult{}, fmt.Errorf("list files: %w", ErrUnauthorized)
	}

	if q.Status != "" && !q.Status.IsValid() {
		return ListResult{}, fmt.Errorf("list files: %w: invalid status %q", ErrInvalidInput, q.Status)
	}
	q.Limit = clampLimit(q.Limit)

	result, err := b.store.List(ctx, ownerID, q)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return ListResult{}, fmt.Errorf("list files: %w", err)
		}
		return ListResult{}, dependencyError("list files", err)
	}

	return result, nil
}

// StaleUploads reports records of any owner still uploading after their
// write URL could no longer have been used. When q.Before is zero the cutoff
// is now minus the configured StaleAfter. Nothing is modified.
func (b *UploadBroker) StaleUploads(ctx context.Context, q StaleQuery) (ListResult, error) {
	if err := ctx.Err(); err != nil {
		return ListResult{}, fmt.Errorf("stale uploads: %w", err)
	}

	if q.Before.IsZero() {
		q.Before = b.now().UTC().Add(-b.staleAfter)
	}
	q.Limit = clampLimit(q.Limit)

	result, err := b.store.ListStale(ctx, q)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return ListResult{}, fmt.Errorf("stale uploads: %w", err)
		}
		return ListResult{}, dependencyError("stale uploads", err)
	}

	return result, nil
}

func (b *UploadBroker) issue(ctx context.Context, req CapabilityRequest) (Capability, error) {
	capability, err := b.issuer.Issue(ctx, req)
	if err != nil {
		return Capability{}, dependencyError("issue "+string(req.Operation)+" url", err)
	}
	if capability.URL == "" {
		return Capability{}, fmt.Errorf("issue %s url: %w: empty url", req.Operation, ErrDependency)
	}
	return capability, nil
}

func dependencyError(op string, err error) error {
	if errors.Is(err, ErrDependency) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDependency, err)
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
