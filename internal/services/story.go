package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/HamidMoopen/memo-ai-sub000/internal/metrics"
	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/narrator"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store"
)

// Narrator turns source text into chapters.
type Narrator interface {
	Compose(ctx context.Context, sources []narrator.SourceStory, opts narrator.Options) ([]narrator.Chapter, error)
}

// StoryService orchestrates story use cases.
type StoryService struct {
	store    store.Store
	narrator Narrator
	log      zerolog.Logger
}

func NewStoryService(s store.Store, n Narrator, log zerolog.Logger) *StoryService {
	return &StoryService{store: s, narrator: n, log: log}
}

func validateStory(s *model.Story) error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if strings.TrimSpace(s.Content) == "" {
		return fmt.Errorf("%w: content is required", model.ErrValidation)
	}
	if _, err := model.ParseLifeChapter(string(s.Category)); err != nil {
		return err
	}
	return nil
}

// CreateStory stores a manually entered story.
func (s *StoryService) CreateStory(ctx context.Context, st *model.Story) (*model.Story, error) {
	if err := validateStory(st); err != nil {
		return nil, err
	}
	in := *st
	in.Source = model.SourceManual
	in.CallID = nil
	return s.store.Stories().Create(ctx, &in)
}

func (s *StoryService) GetStory(ctx context.Context, userID, storyID string) (*model.Story, error) {
	return s.store.Stories().GetByID(ctx, userID, storyID)
}

func (s *StoryService) ListStories(ctx context.Context, req model.ListStoriesRequest) ([]*model.Story, error) {
	if req.Category != "" {
		if _, err := model.ParseLifeChapter(string(req.Category)); err != nil {
			return nil, err
		}
	}
	return s.store.Stories().List(ctx, req)
}

// UpdateStory replaces the editable fields. Concurrent edits are last write wins.
func (s *StoryService) UpdateStory(ctx context.Context, st *model.Story) (*model.Story, error) {
	if err := validateStory(st); err != nil {
		return nil, err
	}
	return s.store.Stories().Update(ctx, st)
}

// DeleteStory removes a story owned by userID; other users' stories report not found.
func (s *StoryService) DeleteStory(ctx context.Context, userID, storyID string) error {
	return s.store.Stories().Delete(ctx, userID, storyID)
}

// ChapterSummary is a catalogue entry with the caller's story count.
type ChapterSummary struct {
	model.LifeChapterInfo
	StoryCount int `json:"storyCount"`
}

// LifeChapters returns the ordered catalogue with per-chapter story counts.
func (s *StoryService) LifeChapters(ctx context.Context, userID string) ([]ChapterSummary, error) {
	counts, err := s.store.Stories().CountByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}
	infos := model.LifeChapters()
	out := make([]ChapterSummary, len(infos))
	for i, info := range infos {
		out[i] = ChapterSummary{LifeChapterInfo: info, StoryCount: counts[info.Chapter]}
	}
	return out, nil
}

// GenerateRequest selects source text and options for story generation.
type GenerateRequest struct {
	UserID      string
	Options     narrator.Options
	Stories     []narrator.SourceStory
	CallID      string
	RecordingID string
}

// GenerateResult holds every generated chapter and the one that was stored.
type GenerateResult struct {
	Chapters []narrator.Chapter `json:"chapters"`
	Story    *model.Story       `json:"story"`
}

// GenerateStory asks the narrator for chapters and persists only the first.
func (s *StoryService) GenerateStory(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	opts := req.Options.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	sources, callID, err := s.resolveSources(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	chapters, err := s.narrator.Compose(ctx, sources, opts)
	metrics.RecordStoryGeneration(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	first := chapters[0]
	st := &model.Story{
		UserID:          req.UserID,
		Title:           strings.TrimSpace(first.Title),
		Content:         first.Content,
		Category:        first.LifeChapter,
		Emotion:         first.Emotion,
		Themes:          first.Themes,
		ChapterMetadata: first.ChapterMetadata,
		Source:          model.SourceGenerated,
	}
	if st.Title == "" {
		st.Title = "Untitled chapter"
	}
	if callID != "" {
		st.CallID = &callID
	}
	saved, err := s.store.Stories().Create(ctx, st)
	if err != nil {
		return nil, err
	}
	if len(chapters) > 1 {
		s.log.Info().Str("user_id", req.UserID).Int("chapters", len(chapters)).
			Msg("persisted first generated chapter only")
	}
	return &GenerateResult{Chapters: chapters, Story: saved}, nil
}

// resolveSources picks source text: explicit stories, then a call transcript,
// then a recording transcript, then every stored story of the user.
func (s *StoryService) resolveSources(ctx context.Context, req GenerateRequest) ([]narrator.SourceStory, string, error) {
	var explicit []narrator.SourceStory
	for _, st := range req.Stories {
		if strings.TrimSpace(st.Content) != "" {
			explicit = append(explicit, st)
		}
	}
	if len(explicit) > 0 {
		return explicit, "", nil
	}

	if req.CallID != "" {
		text, err := s.callTranscript(ctx, req.UserID, req.CallID)
		if err != nil {
			return nil, "", err
		}
		return []narrator.SourceStory{{Title: "Phone conversation", Content: text}}, req.CallID, nil
	}

	if req.RecordingID != "" {
		rec, err := s.store.Recordings().GetByID(ctx, req.UserID, req.RecordingID)
		if err != nil {
			return nil, "", err
		}
		if strings.TrimSpace(rec.Transcript) == "" {
			return nil, "", fmt.Errorf("%w: recording has no transcript", model.ErrValidation)
		}
		return []narrator.SourceStory{{Title: rec.Title, Content: rec.Transcript}}, "", nil
	}

	stored, err := s.store.Stories().List(ctx, model.ListStoriesRequest{UserID: req.UserID, Oldest: true})
	if err != nil {
		return nil, "", err
	}
	if len(stored) == 0 {
		return nil, "", fmt.Errorf("%w: no stories or transcripts to generate from", model.ErrValidation)
	}
	out := make([]narrator.SourceStory, len(stored))
	for i, st := range stored {
		out[i] = narrator.SourceStory{Title: st.Title, Content: st.Content}
	}
	return out, "", nil
}

// callTranscript prefers the final transcript on the call and falls back to
// the running transcript captured by conversation updates.
func (s *StoryService) callTranscript(ctx context.Context, userID, callID string) (string, error) {
	call, err := s.store.Calls().GetByID(ctx, userID, callID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(call.Transcript) != "" {
		return call.Transcript, nil
	}
	tr, err := s.store.Transcripts().Get(ctx, callID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return "", err
	}
	if tr == nil || strings.TrimSpace(tr.Content) == "" {
		return "", fmt.Errorf("%w: call has no transcript yet", model.ErrValidation)
	}
	return tr.Content, nil
}
