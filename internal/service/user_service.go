package service

import (
	"context"
	"fmt"
	"time"

	"signup/internal/cache"
	apperrors "signup/internal/errors"
	"signup/internal/model"
	"signup/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes profile reads and edits for an authenticated user.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, name, picture *string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetUser reads through the cache. Cached copies never carry the password hash.
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, userCacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	s.cache.SetJSON(ctx, userCacheKey(id), user, userCacheTTL)
	return user, nil
}

// UpdateProfile writes the supplied display fields and returns the fresh record.
func (s *userService) UpdateProfile(ctx context.Context, id uint, name, picture *string) (*model.User, error) {
	// MySQL reports 0 affected rows for a no-op write, so absence is decided by the re-read.
	if _, err := s.repo.UpdateProfile(ctx, id, model.ProfileUpdate{Name: name, ProfilePicture: picture}); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, userCacheKey(id))
	return s.GetUser(ctx, id)
}
