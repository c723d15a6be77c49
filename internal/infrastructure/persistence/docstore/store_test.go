package docstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ilcdb/record-management/pkg/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, tbl := range []string{CollectionProcurements, CollectionHonoraria, CollectionTravelVouchers} {
		_, err := db.Exec(`CREATE TABLE ` + tbl + ` (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)
		require.NoError(t, err)
	}
	return New(db.DB, zap.NewNop())
}

func TestStore_InsertGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := Document{ID: "doc-1", Data: []byte(`{"title":"Chairs"}`), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Insert(ctx, CollectionProcurements, doc))

	got, err := store.Get(ctx, CollectionProcurements, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "doc-1", got.ID)
	assert.JSONEq(t, `{"title":"Chairs"}`, string(got.Data))
}

func TestStore_GetMissingReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), CollectionProcurements, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		ts := base.Add(time.Duration(i) * time.Hour)
		doc := Document{ID: id, Data: []byte(`{}`), CreatedAt: ts, UpdatedAt: ts}
		require.NoError(t, store.Insert(ctx, CollectionHonoraria, doc))
	}

	docs, err := store.List(ctx, CollectionHonoraria)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "new", docs[0].ID)
	assert.Equal(t, "old", docs[2].ID)
}

func TestStore_CollectionsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := Document{ID: "doc-1", Data: []byte(`{}`), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Insert(ctx, CollectionProcurements, doc))

	got, err := store.Get(ctx, CollectionTravelVouchers, "doc-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := Document{ID: "doc-1", Data: []byte(`{"amount":100}`), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Insert(ctx, CollectionProcurements, doc))

	doc.Data = []byte(`{"amount":250}`)
	doc.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, store.Update(ctx, CollectionProcurements, doc))

	got, err := store.Get(ctx, CollectionProcurements, "doc-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":250}`, string(got.Data))
}

func TestStore_UpdateMissing(t *testing.T) {
	store := newTestStore(t)

	doc := Document{ID: "nope", Data: []byte(`{}`), UpdatedAt: time.Now().UTC()}
	err := store.Update(context.Background(), CollectionProcurements, doc)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := Document{ID: "doc-1", Data: []byte(`{}`), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Insert(ctx, CollectionProcurements, doc))

	require.NoError(t, store.Delete(ctx, CollectionProcurements, "doc-1"))

	err := store.Delete(ctx, CollectionProcurements, "doc-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UnknownCollection(t *testing.T) {
	store := newTestStore(t)

	_, err := store.List(context.Background(), "users; DROP TABLE procurements")
	assert.Error(t, err)
}
