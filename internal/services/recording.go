package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store"
)

// RecordingService tracks browser and direct voice sessions.
type RecordingService struct {
	store store.Store
}

func NewRecordingService(s store.Store) *RecordingService { return &RecordingService{store: s} }

func (s *RecordingService) CreateRecording(ctx context.Context, r *model.Recording) (*model.Recording, error) {
	if strings.TrimSpace(r.SessionID) == "" {
		return nil, fmt.Errorf("%w: sessionId is required", model.ErrValidation)
	}
	if strings.TrimSpace(r.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	return s.store.Recordings().Create(ctx, r)
}

// CompleteRecording moves a recording to completed; completing twice is a conflict.
func (s *RecordingService) CompleteRecording(ctx context.Context, userID, recordingID, transcript string) (*model.Recording, error) {
	return s.store.Recordings().Complete(ctx, userID, recordingID, transcript)
}

func (s *RecordingService) GetRecording(ctx context.Context, userID, recordingID string) (*model.Recording, error) {
	return s.store.Recordings().GetByID(ctx, userID, recordingID)
}

func (s *RecordingService) ListRecordings(ctx context.Context, userID string) ([]*model.Recording, error) {
	return s.store.Recordings().List(ctx, userID)
}
