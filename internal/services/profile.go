package services

import (
	"context"
	"errors"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store"
)

// ProfileService manages per-user contact details.
type ProfileService struct {
	store store.Store
}

func NewProfileService(s store.Store) *ProfileService { return &ProfileService{store: s} }

// GetProfile returns the stored profile, or an empty one for users who never saved it.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.store.Profiles().Get(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return &model.Profile{UserID: userID}, nil
	}
	return p, err
}

// UpdatePhone normalizes raw to +1XXXXXXXXXX and stores it unverified.
func (s *ProfileService) UpdatePhone(ctx context.Context, userID, raw string) (*model.Profile, error) {
	phone, err := model.NormalizeUSPhone(raw)
	if err != nil {
		return nil, err
	}
	return s.store.Profiles().Upsert(ctx, &model.Profile{
		UserID:        userID,
		PhoneNumber:   phone,
		PhoneVerified: false,
	})
}
