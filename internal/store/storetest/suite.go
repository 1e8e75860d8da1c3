package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()
	otherID := "u-" + uuid.New().String()

	// Users
	u, err := s.Users().Ensure(ctx, &model.User{UserID: userID, Email: userID + "@example.test"})
	if err != nil || u.UserID != userID {
		t.Fatalf("EnsureUser: got=%v err=%v", u, err)
	}
	again, err := s.Users().Ensure(ctx, &model.User{UserID: userID, Email: "changed@example.test"})
	if err != nil || again.Email != u.Email {
		t.Fatalf("EnsureUser second call must keep first row: got=%v err=%v", again, err)
	}
	if _, err := s.Users().Ensure(ctx, &model.User{UserID: otherID}); err != nil {
		t.Fatalf("EnsureUser other: %v", err)
	}
	if _, err := s.Users().Get(ctx, "u-missing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser missing: expected ErrNotFound, got %v", err)
	}

	// Profiles
	if _, err := s.Profiles().Get(ctx, userID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetProfile before upsert: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Profiles().Upsert(ctx, &model.Profile{UserID: userID, PhoneNumber: "+15551234567"}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	p, err := s.Profiles().Upsert(ctx, &model.Profile{UserID: userID, PhoneNumber: "+15557654321", PhoneVerified: true})
	if err != nil || p.PhoneNumber != "+15557654321" || !p.PhoneVerified {
		t.Fatalf("UpsertProfile overwrite: got=%v err=%v", p, err)
	}
	if got, err := s.Profiles().Get(ctx, userID); err != nil || got.PhoneNumber != "+15557654321" {
		t.Fatalf("GetProfile: got=%v err=%v", got, err)
	}

	runStories(t, ctx, s, userID, otherID)
	runCalls(t, ctx, s, userID, otherID)
	runRecordings(t, ctx, s, userID, otherID)
}

func runStories(t *testing.T, ctx context.Context, s store.Store, userID, otherID string) {
	t.Helper()

	first, err := s.Stories().Create(ctx, &model.Story{
		UserID:   userID,
		Title:    "The old barn",
		Content:  "We played in the hay.",
		Category: model.ChapterChildhood,
		Themes:   []string{"play", "family"},
		ChapterMetadata: model.ChapterMetadata{
			TimePeriod: "1962",
			People:     []string{"Grandpa"},
		},
	})
	if err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	if first.StoryID == "" || first.Source != model.SourceManual {
		t.Fatalf("CreateStory defaults: %+v", first)
	}
	callID := "call-" + uuid.New().String()
	second, err := s.Stories().Create(ctx, &model.Story{
		UserID:   userID,
		Title:    "First job",
		Content:  "The mill paid a dollar an hour.",
		Category: model.ChapterEarlyCareer,
		Source:   model.SourceGenerated,
		CallID:   &callID,
	})
	if err != nil {
		t.Fatalf("CreateStory second: %v", err)
	}

	got, err := s.Stories().GetByID(ctx, userID, first.StoryID)
	if err != nil {
		t.Fatalf("GetStory: %v", err)
	}
	if got.Title != "The old barn" || len(got.Themes) != 2 || got.ChapterMetadata.TimePeriod != "1962" {
		t.Fatalf("GetStory round trip: %+v", got)
	}
	if _, err := s.Stories().GetByID(ctx, otherID, first.StoryID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetStory by non-owner: expected ErrNotFound, got %v", err)
	}

	newest, err := s.Stories().List(ctx, model.ListStoriesRequest{UserID: userID})
	if err != nil || len(newest) != 2 {
		t.Fatalf("ListStories: n=%d err=%v", len(newest), err)
	}
	if newest[0].StoryID != second.StoryID {
		t.Fatalf("ListStories default order must be newest first")
	}
	oldest, err := s.Stories().List(ctx, model.ListStoriesRequest{UserID: userID, Oldest: true})
	if err != nil || len(oldest) != 2 || oldest[0].StoryID != first.StoryID {
		t.Fatalf("ListStories oldest first: %v err=%v", oldest, err)
	}
	filtered, err := s.Stories().List(ctx, model.ListStoriesRequest{UserID: userID, Category: model.ChapterEarlyCareer})
	if err != nil || len(filtered) != 1 || filtered[0].CallID == nil || *filtered[0].CallID != callID {
		t.Fatalf("ListStories by chapter: %v err=%v", filtered, err)
	}

	counts, err := s.Stories().CountByCategory(ctx, userID)
	if err != nil || counts[model.ChapterChildhood] != 1 || counts[model.ChapterEarlyCareer] != 1 {
		t.Fatalf("CountByCategory: %v err=%v", counts, err)
	}

	upd := *got
	upd.Title = "The red barn"
	upd.Themes = []string{"play"}
	updated, err := s.Stories().Update(ctx, &upd)
	if err != nil || updated.Title != "The red barn" || len(updated.Themes) != 1 {
		t.Fatalf("UpdateStory: got=%v err=%v", updated, err)
	}
	if updated.UpdatedTime.Before(updated.CreationTime) {
		t.Fatalf("UpdateStory: updated time before creation")
	}
	foreign := upd
	foreign.UserID = otherID
	if _, err := s.Stories().Update(ctx, &foreign); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateStory by non-owner: expected ErrNotFound, got %v", err)
	}

	if err := s.Stories().Delete(ctx, otherID, first.StoryID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteStory by non-owner: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Stories().GetByID(ctx, userID, first.StoryID); err != nil {
		t.Fatalf("story must survive non-owner delete: %v", err)
	}
	if err := s.Stories().Delete(ctx, userID, first.StoryID); err != nil {
		t.Fatalf("DeleteStory: %v", err)
	}
	if err := s.Stories().Delete(ctx, userID, first.StoryID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteStory twice: expected ErrNotFound, got %v", err)
	}
}

func runCalls(t *testing.T, ctx context.Context, s store.Store, userID, otherID string) {
	t.Helper()

	callID := "call-" + uuid.New().String()
	c, err := s.Calls().Create(ctx, &model.Call{CallID: callID, UserID: userID, PhoneNumber: "+15551234567"})
	if err != nil || c.Status != model.CallInitiated {
		t.Fatalf("CreateCall: got=%v err=%v", c, err)
	}
	if _, err := s.Calls().Create(ctx, &model.Call{CallID: callID, UserID: userID}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("CreateCall duplicate: expected ErrConflict, got %v", err)
	}
	if _, err := s.Calls().GetByID(ctx, otherID, callID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetCall by non-owner: expected ErrNotFound, got %v", err)
	}

	// Notes and transcripts may arrive for calls this service never created.
	if _, err := s.Contexts().Create(ctx, &model.MemoryContext{CallID: callID, TimePeriod: "1965", Location: "Ohio", PeopleInvolved: []string{"Mom", "Dad"}}); err != nil {
		t.Fatalf("CreateContext: %v", err)
	}
	if _, err := s.Contexts().Create(ctx, &model.MemoryContext{CallID: "call-unknown", Location: "Nowhere"}); err != nil {
		t.Fatalf("CreateContext for unknown call: %v", err)
	}
	ctxs, err := s.Contexts().ListByCall(ctx, callID)
	if err != nil || len(ctxs) != 1 || len(ctxs[0].PeopleInvolved) != 2 {
		t.Fatalf("ListContexts: %v err=%v", ctxs, err)
	}
	if _, err := s.Emotions().Create(ctx, &model.EmotionalMoment{CallID: callID, Emotion: "joy", Intensity: 0.8, Context: "wedding"}); err != nil {
		t.Fatalf("CreateEmotion: %v", err)
	}
	ems, err := s.Emotions().ListByCall(ctx, callID)
	if err != nil || len(ems) != 1 || ems[0].Intensity != 0.8 {
		t.Fatalf("ListEmotions: %v err=%v", ems, err)
	}

	if _, err := s.Transcripts().Upsert(ctx, &model.Transcript{CallID: callID, Content: "Hello"}); err != nil {
		t.Fatalf("UpsertTranscript: %v", err)
	}
	tr, err := s.Transcripts().Upsert(ctx, &model.Transcript{CallID: callID, Content: "Hello again"})
	if err != nil || tr.Content != "Hello again" {
		t.Fatalf("UpsertTranscript overwrite: got=%v err=%v", tr, err)
	}
	if got, err := s.Transcripts().Get(ctx, callID); err != nil || got.Content != "Hello again" {
		t.Fatalf("GetTranscript: got=%v err=%v", got, err)
	}

	// Complete is an update, never an insert.
	ok, err := s.Calls().Complete(ctx, model.CallCompletion{CallID: "call-never-created", Transcript: "x"})
	if err != nil || ok {
		t.Fatalf("CompleteCall unknown: ok=%v err=%v", ok, err)
	}
	if _, err := s.Calls().GetByID(ctx, userID, "call-never-created"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("CompleteCall must not insert: %v", err)
	}

	summary := json.RawMessage(`{"summary":"talked about the farm"}`)
	ok, err = s.Calls().Complete(ctx, model.CallCompletion{CallID: callID, Summary: summary, Transcript: "full transcript"})
	if err != nil || !ok {
		t.Fatalf("CompleteCall: ok=%v err=%v", ok, err)
	}
	done, err := s.Calls().GetByID(ctx, userID, callID)
	if err != nil || done.Status != model.CallCompleted || done.CompletedTime == nil || done.Transcript != "full transcript" {
		t.Fatalf("CompleteCall result: %+v err=%v", done, err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(done.Summary, &decoded); err != nil || decoded["summary"] != "talked about the farm" {
		t.Fatalf("CompleteCall summary: %s err=%v", done.Summary, err)
	}

	// A second report without a transcript keeps the stored one.
	ok, err = s.Calls().Complete(ctx, model.CallCompletion{CallID: callID})
	if err != nil || !ok {
		t.Fatalf("CompleteCall repeat: ok=%v err=%v", ok, err)
	}
	again, err := s.Calls().GetByID(ctx, userID, callID)
	if err != nil || again.Status != model.CallCompleted || again.Transcript != "full transcript" {
		t.Fatalf("CompleteCall repeat result: %+v err=%v", again, err)
	}

	lst, err := s.Calls().List(ctx, userID)
	if err != nil || len(lst) != 1 {
		t.Fatalf("ListCalls: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Calls().List(ctx, otherID); err != nil || len(lst) != 0 {
		t.Fatalf("ListCalls other: n=%d err=%v", len(lst), err)
	}
}

func runRecordings(t *testing.T, ctx context.Context, s store.Store, userID, otherID string) {
	t.Helper()

	desc := "kitchen table"
	r, err := s.Recordings().Create(ctx, &model.Recording{UserID: userID, SessionID: "sess-1", Title: "Sunday", Description: &desc})
	if err != nil || r.RecordingID == "" || r.Status != model.RecordingCreated {
		t.Fatalf("CreateRecording: got=%v err=%v", r, err)
	}
	if _, err := s.Recordings().GetByID(ctx, otherID, r.RecordingID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetRecording by non-owner: expected ErrNotFound, got %v", err)
	}
	done, err := s.Recordings().Complete(ctx, userID, r.RecordingID, "we talked")
	if err != nil || done.Status != model.RecordingCompleted || done.Transcript != "we talked" || done.CompletedTime == nil {
		t.Fatalf("CompleteRecording: got=%+v err=%v", done, err)
	}
	if _, err := s.Recordings().Complete(ctx, userID, r.RecordingID, "again"); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("CompleteRecording twice: expected ErrConflict, got %v", err)
	}
	if _, err := s.Recordings().Complete(ctx, otherID, r.RecordingID, "x"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("CompleteRecording by non-owner: expected ErrNotFound, got %v", err)
	}
	lst, err := s.Recordings().List(ctx, userID)
	if err != nil || len(lst) != 1 || lst[0].Description == nil || *lst[0].Description != desc {
		t.Fatalf("ListRecordings: %v err=%v", lst, err)
	}
}

// TickingClock returns a clock that advances one second per call so that
// creation order is observable in list queries.
func TickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}
