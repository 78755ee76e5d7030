package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"alumniconnect/internal/models"
)

type AssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

const assessmentColumns = `id, title, description, category, questions, time_limit, total_questions, created_at`

func assessmentDest(a *models.Assessment) []any {
	return []any{
		&a.ID,
		&a.Title,
		&a.Description,
		&a.Category,
		&a.Questions,
		&a.TimeLimit,
		&a.TotalQuestions,
		&a.CreatedAt,
	}
}

func (r *AssessmentRepository) Create(ctx context.Context, assessment models.Assessment) error {
	const query = `
		INSERT INTO assessments (
			id, title, description, category, questions, time_limit, total_questions, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`
	// questions is JSONB; pgx encodes the slice with encoding/json.
	_, err := r.pool.Exec(ctx, query,
		assessment.ID,
		assessment.Title,
		assessment.Description,
		assessment.Category,
		assessment.Questions,
		assessment.TimeLimit,
		assessment.TotalQuestions,
		assessment.CreatedAt,
	)
	return err
}

func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (models.Assessment, error) {
	const query = `SELECT ` + assessmentColumns + ` FROM assessments WHERE id = $1`

	var a models.Assessment
	if err := r.pool.QueryRow(ctx, query, id).Scan(assessmentDest(&a)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Assessment{}, ErrAssessmentNotFound
		}
		return models.Assessment{}, err
	}
	return a, nil
}

func (r *AssessmentRepository) List(ctx context.Context) ([]models.Assessment, error) {
	const query = `SELECT ` + assessmentColumns + ` FROM assessments ORDER BY title ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assessments := make([]models.Assessment, 0)
	for rows.Next() {
		var a models.Assessment
		if err := rows.Scan(assessmentDest(&a)...); err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

func (r *AssessmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assessments`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AssessmentRepository) CreateResult(ctx context.Context, result models.AssessmentResult) error {
	const query = `
		INSERT INTO assessment_results (
			id, user_id, assessment_id, score, total_questions, time_spent, answers, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`
	_, err := r.pool.Exec(ctx, query,
		result.ID,
		result.UserID,
		result.AssessmentID,
		result.Score,
		result.TotalQuestions,
		result.TimeSpent,
		result.Answers,
		result.CreatedAt,
	)
	return err
}

func (r *AssessmentRepository) ListResultsByUser(ctx context.Context, userID string) ([]models.AssessmentResult, error) {
	const query = `
		SELECT id, user_id, assessment_id, score, total_questions, time_spent, answers, created_at
		FROM assessment_results
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.AssessmentResult, 0)
	for rows.Next() {
		var result models.AssessmentResult
		if err := rows.Scan(
			&result.ID,
			&result.UserID,
			&result.AssessmentID,
			&result.Score,
			&result.TotalQuestions,
			&result.TimeSpent,
			&result.Answers,
			&result.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
