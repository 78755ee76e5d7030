package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrSessionNotFound      = errors.New("session not found")
	ErrMentorshipNotFound   = errors.New("mentorship not found")
	ErrDuplicateMentorship  = errors.New("mentorship already exists for this pair")
	ErrStatusChanged        = errors.New("mentorship status changed concurrently")
	ErrMessageNotFound      = errors.New("message not found")
	ErrAssessmentNotFound   = errors.New("assessment not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
