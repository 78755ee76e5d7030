package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"alumniconnect/internal/models"
)

type MentorshipRepository struct {
	pool *pgxpool.Pool
}

func NewMentorshipRepository(pool *pgxpool.Pool) *MentorshipRepository {
	return &MentorshipRepository{pool: pool}
}

const mentorshipColumns = `id, mentor_id, mentee_id, requested_by, status, field, pair_key, created_at, updated_at`

func mentorshipDest(m *models.Mentorship) []any {
	return []any{
		&m.ID,
		&m.MentorID,
		&m.MenteeID,
		&m.RequestedBy,
		&m.Status,
		&m.Field,
		&m.PairKey,
		&m.CreatedAt,
		&m.UpdatedAt,
	}
}

func (r *MentorshipRepository) Create(ctx context.Context, mentorship models.Mentorship) error {
	const query = `
		INSERT INTO mentorships (
			id, mentor_id, mentee_id, requested_by, status, field, pair_key, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $8
		)
	`

	_, err := r.pool.Exec(ctx, query,
		mentorship.ID,
		mentorship.MentorID,
		mentorship.MenteeID,
		mentorship.RequestedBy,
		mentorship.Status,
		mentorship.Field,
		models.PairKey(mentorship.MentorID, mentorship.MenteeID),
		mentorship.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateMentorship
	}
	return err
}

func (r *MentorshipRepository) GetByID(ctx context.Context, id string) (models.Mentorship, error) {
	const query = `SELECT ` + mentorshipColumns + ` FROM mentorships WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *MentorshipRepository) FindBetween(ctx context.Context, userA, userB string) (models.Mentorship, error) {
	const query = `SELECT ` + mentorshipColumns + ` FROM mentorships WHERE pair_key = $1`
	return r.findOne(ctx, query, models.PairKey(userA, userB))
}

func (r *MentorshipRepository) findOne(ctx context.Context, query string, args ...any) (models.Mentorship, error) {
	var m models.Mentorship
	if err := r.pool.QueryRow(ctx, query, args...).Scan(mentorshipDest(&m)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Mentorship{}, ErrMentorshipNotFound
		}
		return models.Mentorship{}, err
	}
	return m, nil
}

// List joins both parties; rows whose users are gone drop out of the inner joins.
func (r *MentorshipRepository) List(ctx context.Context, filter models.MentorshipFilter) ([]models.MentorshipView, error) {
	cols := []string{
		"m.id", "m.mentor_id", "m.mentee_id", "m.requested_by", "m.status",
		"m.field", "m.pair_key", "m.created_at", "m.updated_at",
	}
	cols = append(cols, summaryColumns("mu")...)
	cols = append(cols, summaryColumns("me")...)

	builder := psql.Select(cols...).
		From("mentorships m").
		Join("users mu ON mu.id = m.mentor_id").
		Join("users me ON me.id = m.mentee_id").
		OrderBy("m.created_at DESC", "m.id DESC")
	if filter.MentorID != "" {
		builder = builder.Where(sq.Eq{"m.mentor_id": filter.MentorID})
	}
	if filter.MenteeID != "" {
		builder = builder.Where(sq.Eq{"m.mentee_id": filter.MenteeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]models.MentorshipView, 0)
	for rows.Next() {
		var view models.MentorshipView
		dest := mentorshipDest(&view.Mentorship)
		dest = append(dest, summaryDest(&view.Mentor)...)
		dest = append(dest, summaryDest(&view.Mentee)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func (r *MentorshipRepository) UpdateStatus(ctx context.Context, id string, from, to models.MentorshipStatus, at time.Time) (models.Mentorship, error) {
	const query = `
		UPDATE mentorships SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING ` + mentorshipColumns

	var m models.Mentorship
	err := r.pool.QueryRow(ctx, query, id, from, to, at).Scan(mentorshipDest(&m)...)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Mentorship{}, err
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return models.Mentorship{}, err
	}
	return models.Mentorship{}, ErrStatusChanged
}

func (r *MentorshipRepository) Delete(ctx context.Context, id string) error {
	// messages.mentorship_id cascades.
	const query = `DELETE FROM mentorships WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMentorshipNotFound
	}
	return nil
}
