package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/narrator"
)

func TestStoryService_CRUD(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "ann", "bob")
	svc := NewStoryService(st, &fakeNarrator{}, zerolog.Nop())

	_, err := svc.CreateStory(ctx, &model.Story{UserID: "ann", Title: "x", Content: "y", Category: "space"})
	require.ErrorIs(t, err, model.ErrValidation)
	_, err = svc.CreateStory(ctx, &model.Story{UserID: "ann", Title: " ", Content: "y", Category: model.ChapterCollege})
	require.ErrorIs(t, err, model.ErrValidation)

	s, err := svc.CreateStory(ctx, &model.Story{UserID: "ann", Title: "Dorm", Content: "Bunk beds.", Category: model.ChapterCollege, Source: model.SourceGenerated})
	require.NoError(t, err)
	assert.Equal(t, model.SourceManual, s.Source, "manual entry is always manual")

	// re-tagging replaces the single chapter
	s.Category = model.ChapterYoungAdulthood
	upd, err := svc.UpdateStory(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, model.ChapterYoungAdulthood, upd.Category)

	chapters, err := svc.LifeChapters(ctx, "ann")
	require.NoError(t, err)
	require.Len(t, chapters, 12)
	for _, c := range chapters {
		want := 0
		if c.Chapter == model.ChapterYoungAdulthood {
			want = 1
		}
		assert.Equal(t, want, c.StoryCount, c.Chapter)
	}

	// a non-owner cannot delete
	err = svc.DeleteStory(ctx, "bob", s.StoryID)
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = svc.GetStory(ctx, "ann", s.StoryID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStory(ctx, "ann", s.StoryID))
	list, err := svc.ListStories(ctx, model.ListStoriesRequest{UserID: "ann"})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.ListStories(ctx, model.ListStoriesRequest{UserID: "ann", Category: "bogus"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func twoChapters() []narrator.Chapter {
	return []narrator.Chapter{
		{Title: "The Barn", Content: "Hay everywhere.", Emotion: "joy", LifeChapter: model.ChapterChildhood,
			Themes: []string{"family"}, ChapterMetadata: model.ChapterMetadata{TimePeriod: "1962"}},
		{Title: "Leaving", Content: "We moved.", LifeChapter: model.ChapterAdolescence},
	}
}

func TestGenerateStory_PersistsFirstChapterOnly(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "ann")
	n := &fakeNarrator{chapters: twoChapters()}
	svc := NewStoryService(st, n, zerolog.Nop())

	res, err := svc.GenerateStory(ctx, GenerateRequest{
		UserID:  "ann",
		Stories: []narrator.SourceStory{{Title: "Farm", Content: "We had a barn."}, {Content: "  "}},
		Options: narrator.Options{Tone: "nostalgic"},
	})
	require.NoError(t, err)
	assert.Len(t, res.Chapters, 2)
	require.NotNil(t, res.Story)
	assert.Equal(t, "The Barn", res.Story.Title)
	assert.Equal(t, model.SourceGenerated, res.Story.Source)
	assert.Equal(t, "1962", res.Story.ChapterMetadata.TimePeriod)
	assert.Len(t, n.sources, 1, "blank explicit stories are dropped")
	assert.Equal(t, "nostalgic", n.opts.Tone)
	assert.Equal(t, "warm", narrator.Options{}.WithDefaults().Tone)

	stored, err := st.Stories().List(ctx, model.ListStoriesRequest{UserID: "ann"})
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestGenerateStory_SourceResolution(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "ann", "bob")
	n := &fakeNarrator{chapters: twoChapters()}
	svc := NewStoryService(st, n, zerolog.Nop())

	// nothing to narrate
	_, err := svc.GenerateStory(ctx, GenerateRequest{UserID: "ann"})
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Zero(t, n.calls)

	// call transcript from conversation updates
	_, err = st.Calls().Create(ctx, &model.Call{CallID: "c1", UserID: "ann"})
	require.NoError(t, err)
	_, err = svc.GenerateStory(ctx, GenerateRequest{UserID: "ann", CallID: "c1"})
	require.ErrorIs(t, err, model.ErrValidation, "no transcript yet")
	_, err = st.Transcripts().Upsert(ctx, &model.Transcript{CallID: "c1", Content: "running transcript"})
	require.NoError(t, err)
	res, err := svc.GenerateStory(ctx, GenerateRequest{UserID: "ann", CallID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "running transcript", n.sources[0].Content)
	require.NotNil(t, res.Story.CallID)
	assert.Equal(t, "c1", *res.Story.CallID)

	// another user's call is not found
	_, err = svc.GenerateStory(ctx, GenerateRequest{UserID: "bob", CallID: "c1"})
	require.ErrorIs(t, err, model.ErrNotFound)

	// recording transcript
	rec, err := st.Recordings().Create(ctx, &model.Recording{UserID: "ann", SessionID: "s1", Title: "Kitchen"})
	require.NoError(t, err)
	_, err = st.Recordings().Complete(ctx, "ann", rec.RecordingID, "recorded words")
	require.NoError(t, err)
	_, err = svc.GenerateStory(ctx, GenerateRequest{UserID: "ann", RecordingID: rec.RecordingID})
	require.NoError(t, err)
	assert.Equal(t, "recorded words", n.sources[0].Content)

	// fallback to every stored story, oldest first
	_, err = svc.GenerateStory(ctx, GenerateRequest{UserID: "ann"})
	require.NoError(t, err)
	require.Len(t, n.sources, 2)
	assert.Equal(t, "The Barn", n.sources[0].Title)
}

func TestGenerateStory_Failures(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t, "ann")
	n := &fakeNarrator{err: errors.New("model down")}
	svc := NewStoryService(st, n, zerolog.Nop())

	_, err := svc.GenerateStory(ctx, GenerateRequest{UserID: "ann", Stories: []narrator.SourceStory{{Content: "x"}}})
	require.Error(t, err)

	_, err = svc.GenerateStory(ctx, GenerateRequest{UserID: "ann", Stories: []narrator.SourceStory{{Content: "x"}},
		Options: narrator.Options{ChapterCount: 9}})
	require.ErrorIs(t, err, model.ErrValidation)

	stored, err := st.Stories().List(ctx, model.ListStoriesRequest{UserID: "ann"})
	require.NoError(t, err)
	assert.Empty(t, stored)
}
