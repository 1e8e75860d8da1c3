package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/narrator"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store/sqlite"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store/sqlstore"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store/storetest"
	"github.com/HamidMoopen/memo-ai-sub000/internal/voice"
)

// newTestStore returns a migrated SQLite store with the given users present.
func newTestStore(t *testing.T, userIDs ...string) store.Store {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "eterna.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))
	s := sqlite.NewWithDB(db, sqlstore.WithClock(storetest.TickingClock()))
	for _, id := range userIDs {
		_, err := s.Users().Ensure(context.Background(), &model.User{UserID: id, Email: id + "@example.test"})
		require.NoError(t, err)
	}
	return s
}

// --- Fakes ---

type fakeNarrator struct {
	chapters []narrator.Chapter
	err      error
	sources  []narrator.SourceStory
	opts     narrator.Options
	calls    int
}

func (f *fakeNarrator) Compose(_ context.Context, sources []narrator.SourceStory, opts narrator.Options) ([]narrator.Chapter, error) {
	f.calls++
	f.sources = sources
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.chapters, nil
}

type fakeDialer struct {
	id   string
	err  error
	reqs []voice.CallRequest
}

func (f *fakeDialer) CreateCall(_ context.Context, req voice.CallRequest) (string, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}
