package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/ids"
	"alumniconnect/internal/media/sniffer"
	"alumniconnect/internal/media/svg"
	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

// ObjectPutter stores an object and returns the URL it is served from.
type ObjectPutter interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type UploadService struct {
	users    repository.UserStore
	store    ObjectPutter
	maxBytes int64
	now      func() time.Time
	log      zerolog.Logger
}

// NewUploadService accepts a nil store; uploads then fail with a validation error.
func NewUploadService(users repository.UserStore, store ObjectPutter, maxBytes int64, log zerolog.Logger) *UploadService {
	return &UploadService{
		users:    users,
		store:    store,
		maxBytes: maxBytes,
		now:      systemClock,
		log:      log,
	}
}

type AvatarUploadInput struct {
	UserID       string
	File         io.Reader
	DeclaredType string
}

func (s *UploadService) UploadAvatar(ctx context.Context, input AvatarUploadInput) (models.User, error) {
	if s.store == nil {
		return models.User{}, apperrors.Validation("Avatar uploads are not configured")
	}
	if input.File == nil {
		return models.User{}, apperrors.Validation("file is required")
	}

	data, err := io.ReadAll(io.LimitReader(input.File, s.maxBytes+1))
	if err != nil {
		return models.User{}, fmt.Errorf("read avatar: %w", err)
	}
	if len(data) == 0 {
		return models.User{}, apperrors.Validation("file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return models.User{}, apperrors.Validation(fmt.Sprintf("Avatar must be at most %d bytes", s.maxBytes))
	}

	mediaType, err := sniffer.Detect(data)
	if err != nil {
		return models.User{}, apperrors.Wrap(apperrors.KindValidation, err, "Unsupported image type")
	}
	if input.DeclaredType != "" && input.DeclaredType != mediaType.MIME() {
		return models.User{}, apperrors.Validation(fmt.Sprintf("Content type mismatch: declared %s, actual %s", input.DeclaredType, mediaType.MIME()))
	}

	if mediaType == sniffer.TypeSVG {
		clean, err := svg.Sanitize(data)
		if err != nil {
			if errors.Is(err, svg.ErrNotSVG) {
				return models.User{}, apperrors.Wrap(apperrors.KindValidation, err, "Unsupported image type")
			}
			return models.User{}, fmt.Errorf("sanitize svg: %w", err)
		}
		data = clean
	}

	key := path.Join(input.UserID, s.now().Format("20060102"), fmt.Sprintf("%s.%s", ids.New(), mediaType.Ext()))
	url, err := s.store.Put(ctx, key, data, mediaType.MIME())
	if err != nil {
		return models.User{}, fmt.Errorf("store avatar: %w", err)
	}

	if err := s.users.SetAvatar(ctx, input.UserID, url); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperrors.Wrap(apperrors.KindNotFound, err, msgUserNotFound)
		}
		return models.User{}, fmt.Errorf("save avatar: %w", err)
	}

	s.log.Info().Str("user_id", input.UserID).Str("object_key", key).Msg("avatar uploaded")

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return models.User{}, fmt.Errorf("reload user: %w", err)
	}
	return user, nil
}
