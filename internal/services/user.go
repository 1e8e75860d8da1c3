package services

import (
	"context"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store"
)

// UserService handles user-related operations.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService { return &UserService{store: s} }

// EnsureUser mirrors an authenticated subject into the users table.
func (s *UserService) EnsureUser(ctx context.Context, userID, email string) (*model.User, error) {
	return s.store.Users().Ensure(ctx, &model.User{UserID: userID, Email: email})
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}
