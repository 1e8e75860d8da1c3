package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store"
	"github.com/HamidMoopen/memo-ai-sub000/internal/voice"
)

// Dialer places outbound calls on the voice platform.
type Dialer interface {
	CreateCall(ctx context.Context, req voice.CallRequest) (string, error)
}

// CallDefaults are used when a request leaves the assistant or number unset.
type CallDefaults struct {
	AssistantID   string
	PhoneNumberID string
	WebhookURL    string
}

// CallService starts phone capture sessions and reads back what they recorded.
type CallService struct {
	store    store.Store
	dialer   Dialer
	defaults CallDefaults
	log      zerolog.Logger
}

func NewCallService(s store.Store, d Dialer, defaults CallDefaults, log zerolog.Logger) *CallService {
	return &CallService{store: s, dialer: d, defaults: defaults, log: log}
}

// InitiateCallRequest is the input to InitiateCall.
type InitiateCallRequest struct {
	UserID         string
	CustomerNumber string
	AssistantID    string
	PhoneNumberID  string
}

// InitiateCall asks the voice platform to dial the user and records the call
// as initiated. The platform call is not undone if the insert fails.
func (s *CallService) InitiateCall(ctx context.Context, req InitiateCallRequest) (*model.Call, error) {
	if !model.IsUSE164(req.CustomerNumber) {
		return nil, fmt.Errorf("%w: customerPhoneNumber must be a US number in E.164 format", model.ErrValidation)
	}
	assistantID := firstNonEmpty(req.AssistantID, s.defaults.AssistantID)
	phoneNumberID := firstNonEmpty(req.PhoneNumberID, s.defaults.PhoneNumberID)
	if assistantID == "" || phoneNumberID == "" {
		return nil, fmt.Errorf("%w: assistantId and phoneNumberId are required", model.ErrValidation)
	}

	callID, err := s.dialer.CreateCall(ctx, voice.CallRequest{
		CustomerNumber: req.CustomerNumber,
		AssistantID:    assistantID,
		PhoneNumberID:  phoneNumberID,
		ServerURL:      s.defaults.WebhookURL,
		Metadata:       map[string]string{"userId": req.UserID},
	})
	if err != nil {
		return nil, err
	}

	call, err := s.store.Calls().Create(ctx, &model.Call{
		CallID:      callID,
		UserID:      req.UserID,
		PhoneNumber: req.CustomerNumber,
	})
	if err != nil {
		s.log.Error().Stack().Err(err).Str("call_id", callID).Msg("call placed but not recorded")
		return nil, err
	}
	return call, nil
}

func (s *CallService) ListCalls(ctx context.Context, userID string) ([]*model.Call, error) {
	return s.store.Calls().List(ctx, userID)
}

// GetCallDetail returns a call owned by userID together with its notes and transcript.
func (s *CallService) GetCallDetail(ctx context.Context, userID, callID string) (*model.CallDetail, error) {
	call, err := s.store.Calls().GetByID(ctx, userID, callID)
	if err != nil {
		return nil, err
	}
	contexts, err := s.store.Contexts().ListByCall(ctx, callID)
	if err != nil {
		return nil, err
	}
	emotions, err := s.store.Emotions().ListByCall(ctx, callID)
	if err != nil {
		return nil, err
	}
	tr, err := s.store.Transcripts().Get(ctx, callID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	if contexts == nil {
		contexts = []*model.MemoryContext{}
	}
	if emotions == nil {
		emotions = []*model.EmotionalMoment{}
	}
	return &model.CallDetail{Call: call, Contexts: contexts, EmotionalMoments: emotions, Transcript: tr}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
