package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"alumniconnect/internal/models"
)

type InterviewGuideRepository struct {
	pool *pgxpool.Pool
}

func NewInterviewGuideRepository(pool *pgxpool.Pool) *InterviewGuideRepository {
	return &InterviewGuideRepository{pool: pool}
}

func (r *InterviewGuideRepository) Create(ctx context.Context, guide models.InterviewGuide) error {
	const query = `
		INSERT INTO interview_guides (
			id, author_id, company, role, experience, questions, tips, difficulty, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`
	_, err := r.pool.Exec(ctx, query,
		guide.ID,
		guide.AuthorID,
		guide.Company,
		guide.Role,
		guide.Experience,
		guide.Questions,
		guide.Tips,
		guide.Difficulty,
		guide.CreatedAt,
	)
	return err
}

func (r *InterviewGuideRepository) List(ctx context.Context, company string) ([]models.InterviewGuideView, error) {
	cols := []string{"g.id", "g.author_id", "g.company", "g.role", "g.experience", "g.questions", "g.tips", "g.difficulty", "g.created_at"}
	cols = append(cols, summaryColumns("a")...)

	builder := psql.Select(cols...).
		From("interview_guides g").
		Join("users a ON a.id = g.author_id").
		OrderBy("g.created_at DESC", "g.id DESC")
	if company != "" {
		builder = builder.Where(sq.ILike{"g.company": containsPattern(company)})
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

	views := make([]models.InterviewGuideView, 0)
	for rows.Next() {
		var view models.InterviewGuideView
		dest := []any{
			&view.ID,
			&view.AuthorID,
			&view.Company,
			&view.Role,
			&view.Experience,
			&view.Questions,
			&view.Tips,
			&view.Difficulty,
			&view.CreatedAt,
		}
		dest = append(dest, summaryDest(&view.Author)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func (r *InterviewGuideRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM interview_guides`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
