package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store/sqlstore"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store/storetest"
)

func makeSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "eterna.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return NewWithDB(db, sqlstore.WithClock(storetest.TickingClock()))
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeSQLiteStore)
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "eterna.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Migrate(ctx, db))
}

func TestForeignKeysEnforced(t *testing.T) {
	s := makeSQLiteStore(t)
	_, err := s.Stories().Create(context.Background(), &model.Story{
		UserID:   "u-ghost",
		Title:    "t",
		Content:  "c",
		Category: model.ChapterLegacy,
	})
	require.Error(t, err, "story for a missing user must be rejected")
}
