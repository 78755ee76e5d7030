package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

type ProfileService struct {
	users repository.UserStore
	log   zerolog.Logger
}

func NewProfileService(users repository.UserStore, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, log: log}
}

func (s *ProfileService) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperrors.Wrap(apperrors.KindNotFound, err, msgUserNotFound)
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *ProfileService) SearchAlumni(ctx context.Context, filter models.AlumniFilter) ([]models.User, error) {
	users, err := s.users.SearchAlumni(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search alumni: %w", err)
	}
	return users, nil
}

func (s *ProfileService) Update(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error) {
	if update.FullName != nil && trimOptional(update.FullName) == nil {
		return models.User{}, apperrors.Validation("fullName cannot be empty")
	}
	update.FullName = trimOptional(update.FullName)

	user, err := s.users.UpdateProfile(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperrors.Wrap(apperrors.KindNotFound, err, msgUserNotFound)
		}
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	s.log.Debug().Str("user_id", id).Msg("profile updated")
	return user, nil
}
