// Package storetest is a contract suite run against every
// mediastore.MetadataStore backend.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

// Factory returns a fresh, migrated, empty store. Cleanup is registered on t.
type Factory func(t *testing.T) mediastore.MetadataStore

var base = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

// NewRecord returns an uploading record with every field populated.
func NewRecord(ownerID, fileID string, createdAt time.Time) mediastore.FileRecord {
	name := fileID + ".jpg"
	return mediastore.FileRecord{
		FileID:              fileID,
		OwnerID:             ownerID,
		DeclaredName:        name,
		Category:            mediastore.CategoryImage,
		DeclaredSize:        2048,
		DeclaredContentType: "image/jpeg",
		ObjectKey:           mediastore.ObjectKey(ownerID, fileID, name),
		Title:               "Title " + fileID,
		Description:         "desc",
		Tags:                []string{"a", "b"},
		Status:              mediastore.StatusUploading,
		CreatedAt:           createdAt,
		LastModified:        createdAt,
		Version:             1,
	}
}

// Run executes the full contract against newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Create", func(t *testing.T) { testCreate(t, newStore) })
	t.Run("Get", func(t *testing.T) { testGet(t, newStore) })
	t.Run("Complete", func(t *testing.T) { testComplete(t, newStore) })
	t.Run("List", func(t *testing.T) { testList(t, newStore) })
	t.Run("ListStale", func(t *testing.T) { testListStale(t, newStore) })
}

func testCreate(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("stores every field", func(t *testing.T) {
		store := newStore(t)
		rec := NewRecord("user-1", "user-1_000000000001", base)

		created, err := store.Create(ctx, rec)
		require.NoError(t, err)
		assertRecordEqual(t, rec, created)

		got, err := store.Get(ctx, "user-1", rec.FileID)
		require.NoError(t, err)
		assertRecordEqual(t, rec, got)
	})

	t.Run("nil tags read back as empty", func(t *testing.T) {
		store := newStore(t)
		rec := NewRecord("user-1", "user-1_000000000002", base)
		rec.Tags = nil

		_, err := store.Create(ctx, rec)
		require.NoError(t, err)

		got, err := store.Get(ctx, "user-1", rec.FileID)
		require.NoError(t, err)
		assert.NotNil(t, got.Tags)
		assert.Empty(t, got.Tags)
	})

	t.Run("duplicate key is a conflict and keeps the first record", func(t *testing.T) {
		store := newStore(t)
		first := NewRecord("user-1", "user-1_000000000003", base)
		_, err := store.Create(ctx, first)
		require.NoError(t, err)

		second := first
		second.Title = "overwritten"
		_, err = store.Create(ctx, second)
		assert.ErrorIs(t, err, mediastore.ErrConflict)

		got, err := store.Get(ctx, "user-1", first.FileID)
		require.NoError(t, err)
		assert.Equal(t, first.Title, got.Title)
	})

	t.Run("duplicate object key is a conflict", func(t *testing.T) {
		store := newStore(t)
		first := NewRecord("user-1", "user-1_000000000004", base)
		_, err := store.Create(ctx, first)
		require.NoError(t, err)

		second := NewRecord("user-1", "user-1_000000000005", base)
		second.ObjectKey = first.ObjectKey
		_, err = store.Create(ctx, second)
		assert.ErrorIs(t, err, mediastore.ErrConflict)
	})

	t.Run("same file id under another owner is distinct", func(t *testing.T) {
		store := newStore(t)
		a := NewRecord("user-1", "shared_id", base)
		b := NewRecord("user-2", "shared_id", base)

		_, err := store.Create(ctx, a)
		require.NoError(t, err)
		_, err = store.Create(ctx, b)
		require.NoError(t, err)
	})

	t.Run("concurrent creates of one key admit exactly one", func(t *testing.T) {
		store := newStore(t)
		rec := NewRecord("user-1", "user-1_000000000006", base)

		const n = 8
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Create(ctx, rec)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, mediastore.ErrConflict)
		}
		assert.Equal(t, 1, succeeded)
	})
}

func testGet(t *testing.T, newStore Factory) {
	ctx := context.Background()
	store := newStore(t)

	rec := NewRecord("user-1", "user-1_00000000000a", base)
	_, err := store.Create(ctx, rec)
	require.NoError(t, err)

	t.Run("owner sees record", func(t *testing.T) {
		got, err := store.Get(ctx, "user-1", rec.FileID)
		require.NoError(t, err)
		assert.Equal(t, rec.FileID, got.FileID)
	})

	t.Run("other owner gets not found", func(t *testing.T) {
		_, err := store.Get(ctx, "user-2", rec.FileID)
		assert.ErrorIs(t, err, mediastore.ErrNotFound)
	})

	t.Run("unknown id gets not found", func(t *testing.T) {
		_, err := store.Get(ctx, "user-1", "user-1_ffffffffffff")
		assert.ErrorIs(t, err, mediastore.ErrNotFound)
	})
}

func testComplete(t *testing.T, newStore Factory) {
	ctx := context.Background()
	later := base.Add(5 * time.Minute)

	t.Run("transitions once then is idempotent", func(t *testing.T) {
		store := newStore(t)
		rec := NewRecord("user-1", "user-1_00000000000b", base)
		_, err := store.Create(ctx, rec)
		require.NoError(t, err)

		done, changed, err := store.Complete(ctx, "user-1", rec.FileID, later)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, mediastore.StatusCompleted, done.Status)
		assert.Equal(t, 2, done.Version)
		assert.True(t, later.Equal(done.LastModified))
		assert.True(t, base.Equal(done.CreatedAt), "created_at is immutable")

		again, changed, err := store.Complete(ctx, "user-1", rec.FileID, later.Add(time.Minute))
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, mediastore.StatusCompleted, again.Status)
		assert.Equal(t, 2, again.Version, "repeat confirm must not bump version")
		assert.True(t, later.Equal(again.LastModified))
	})

	t.Run("other owner gets not found and record is untouched", func(t *testing.T) {
		store := newStore(t)
		rec := NewRecord("user-1", "user-1_00000000000c", base)
		_, err := store.Create(ctx, rec)
		require.NoError(t, err)

		_, _, err = store.Complete(ctx, "user-2", rec.FileID, later)
		assert.ErrorIs(t, err, mediastore.ErrNotFound)

		got, err := store.Get(ctx, "user-1", rec.FileID)
		require.NoError(t, err)
		assert.Equal(t, mediastore.StatusUploading, got.Status)
		assert.Equal(t, 1, got.Version)
	})

	t.Run("unknown id gets not found and creates nothing", func(t *testing.T) {
		store := newStore(t)

		_, _, err := store.Complete(ctx, "user-1", "user-1_000000000000", later)
		assert.ErrorIs(t, err, mediastore.ErrNotFound)

		_, err = store.Get(ctx, "user-1", "user-1_000000000000")
		assert.ErrorIs(t, err, mediastore.ErrNotFound)
	})

	t.Run("concurrent completes transition exactly once", func(t *testing.T) {
		store := newStore(t)
		rec := NewRecord("user-1", "user-1_00000000000d", base)
		_, err := store.Create(ctx, rec)
		require.NoError(t, err)

		const n = 8
		var wg sync.WaitGroup
		changes := make(chan bool, n)
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, changed, err := store.Complete(ctx, "user-1", rec.FileID, later)
				assert.NoError(t, err)
				changes <- changed
			}()
		}
		wg.Wait()
		close(changes)

		transitions := 0
		for c := range changes {
			if c {
				transitions++
			}
		}
		assert.Equal(t, 1, transitions)

		got, err := store.Get(ctx, "user-1", rec.FileID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Version)
	})
}

func testList(t *testing.T, newStore Factory) {
	ctx := context.Background()
	store := newStore(t)

	for i := range 5 {
		rec := NewRecord("user-1", fmt.Sprintf("user-1_%012d", i), base.Add(time.Duration(i)*time.Second))
		_, err := store.Create(ctx, rec)
		require.NoError(t, err)
	}
	// same instant, ordered by file id
	for _, id := range []string{"user-1_zzzzzzzzzzz2", "user-1_zzzzzzzzzzz1"} {
		_, err := store.Create(ctx, NewRecord("user-1", id, base.Add(time.Hour)))
		require.NoError(t, err)
	}
	_, err := store.Create(ctx, NewRecord("user-2", "user-2_000000000000", base))
	require.NoError(t, err)

	_, _, err = store.Complete(ctx, "user-1", "user-1_000000000001", base.Add(time.Minute))
	require.NoError(t, err)

	t.Run("owner scoped and ordered", func(t *testing.T) {
		res, err := store.List(ctx, "user-1", mediastore.ListQuery{Limit: 100})
		require.NoError(t, err)
		require.Len(t, res.Items, 7)
		assert.Empty(t, res.NextCursor)

		assert.Equal(t, []string{
			"user-1_000000000000", "user-1_000000000001", "user-1_000000000002",
			"user-1_000000000003", "user-1_000000000004",
			"user-1_zzzzzzzzzzz1", "user-1_zzzzzzzzzzz2",
		}, ids(res.Items))
	})

	t.Run("paginates with cursor", func(t *testing.T) {
		var all []string
		cursor := ""
		pages := 0
		for {
			res, err := store.List(ctx, "user-1", mediastore.ListQuery{Limit: 3, Cursor: cursor})
			require.NoError(t, err)
			assert.LessOrEqual(t, len(res.Items), 3)
			all = append(all, ids(res.Items)...)
			pages++
			if res.NextCursor == "" {
				break
			}
			cursor = res.NextCursor
		}
		assert.Equal(t, 3, pages)
		assert.Len(t, all, 7)
		assert.Equal(t, "user-1_zzzzzzzzzzz2", all[6])
	})

	t.Run("status filter", func(t *testing.T) {
		res, err := store.List(ctx, "user-1", mediastore.ListQuery{Limit: 100, Status: mediastore.StatusCompleted})
		require.NoError(t, err)
		assert.Equal(t, []string{"user-1_000000000001"}, ids(res.Items))
	})

	t.Run("owner with no records", func(t *testing.T) {
		res, err := store.List(ctx, "user-3", mediastore.ListQuery{Limit: 10})
		require.NoError(t, err)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})

	t.Run("zero limit uses default", func(t *testing.T) {
		res, err := store.List(ctx, "user-1", mediastore.ListQuery{})
		require.NoError(t, err)
		assert.Len(t, res.Items, 7)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		_, err := store.List(ctx, "user-1", mediastore.ListQuery{Limit: 10, Cursor: "%%%"})
		assert.ErrorIs(t, err, mediastore.ErrInvalidInput)
	})
}

func testListStale(t *testing.T, newStore Factory) {
	ctx := context.Background()
	store := newStore(t)

	old := NewRecord("user-1", "user-1_00000000old1", base)
	oldDone := NewRecord("user-2", "user-2_00000000old2", base.Add(time.Second))
	fresh := NewRecord("user-1", "user-1_0000000fresh", base.Add(2*time.Hour))
	otherOwner := NewRecord("user-3", "user-3_00000000old3", base.Add(2*time.Second))

	for _, rec := range []mediastore.FileRecord{old, oldDone, fresh, otherOwner} {
		_, err := store.Create(ctx, rec)
		require.NoError(t, err)
	}
	_, _, err := store.Complete(ctx, "user-2", oldDone.FileID, base.Add(time.Minute))
	require.NoError(t, err)

	res, err := store.ListStale(ctx, mediastore.StaleQuery{Before: base.Add(time.Hour), Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{old.FileID}, ids(res.Items))
	require.NotEmpty(t, res.NextCursor)

	res, err = store.ListStale(ctx, mediastore.StaleQuery{Before: base.Add(time.Hour), Limit: 1, Cursor: res.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, []string{otherOwner.FileID}, ids(res.Items))
	assert.Empty(t, res.NextCursor)
}

func ids(recs []mediastore.FileRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.FileID)
	}
	return out
}

func assertRecordEqual(t *testing.T, want, got mediastore.FileRecord) {
	t.Helper()

	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at: want %v, got %v", want.CreatedAt, got.CreatedAt)
	assert.True(t, want.LastModified.Equal(got.LastModified), "last_modified: want %v, got %v", want.LastModified, got.LastModified)

	want.CreatedAt, got.CreatedAt = time.Time{}, time.Time{}
	want.LastModified, got.LastModified = time.Time{}, time.Time{}
	assert.Equal(t, want, got)
}
