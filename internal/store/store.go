package store

import (
	"context"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite) and share
// the SQL in internal/store/sqlstore.
type Store interface {
	Users() Users
	Profiles() Profiles
	Stories() Stories
	Calls() Calls
	Contexts() Contexts
	Emotions() Emotions
	Transcripts() Transcripts
	Recordings() Recordings
}

type Users interface {
	// Ensure inserts the user when absent and returns the stored row.
	Ensure(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
}

type Profiles interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
	Upsert(ctx context.Context, p *model.Profile) (*model.Profile, error)
}

type Stories interface {
	Create(ctx context.Context, s *model.Story) (*model.Story, error)
	GetByID(ctx context.Context, userID, storyID string) (*model.Story, error)
	List(ctx context.Context, req model.ListStoriesRequest) ([]*model.Story, error)
	Update(ctx context.Context, s *model.Story) (*model.Story, error)
	// Delete removes the story only when userID owns it; otherwise model.ErrNotFound.
	Delete(ctx context.Context, userID, storyID string) error
	CountByCategory(ctx context.Context, userID string) (map[model.LifeChapter]int, error)
}

type Calls interface {
	Create(ctx context.Context, c *model.Call) (*model.Call, error)
	GetByID(ctx context.Context, userID, callID string) (*model.Call, error)
	List(ctx context.Context, userID string) ([]*model.Call, error)
	// Complete moves a call to completed. It never inserts; the bool reports
	// whether a row matched.
	Complete(ctx context.Context, c model.CallCompletion) (bool, error)
}

type Contexts interface {
	Create(ctx context.Context, c *model.MemoryContext) (*model.MemoryContext, error)
	ListByCall(ctx context.Context, callID string) ([]*model.MemoryContext, error)
}

type Emotions interface {
	Create(ctx context.Context, e *model.EmotionalMoment) (*model.EmotionalMoment, error)
	ListByCall(ctx context.Context, callID string) ([]*model.EmotionalMoment, error)
}

type Transcripts interface {
	// Upsert writes the transcript keyed by call id; repeated calls overwrite.
	Upsert(ctx context.Context, t *model.Transcript) (*model.Transcript, error)
	Get(ctx context.Context, callID string) (*model.Transcript, error)
}

type Recordings interface {
	Create(ctx context.Context, r *model.Recording) (*model.Recording, error)
	GetByID(ctx context.Context, userID, recordingID string) (*model.Recording, error)
	List(ctx context.Context, userID string) ([]*model.Recording, error)
	Complete(ctx context.Context, userID, recordingID, transcript string) (*model.Recording, error)
}
