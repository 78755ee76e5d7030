package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"alumniconnect/internal/models"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) Create(ctx context.Context, post models.Post) error {
	const query = `
		INSERT INTO posts (id, author_id, content, company, field, likes, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.AuthorID,
		post.Content,
		post.Company,
		post.Field,
		post.Likes,
		post.Comments,
		post.CreatedAt,
	)
	return err
}

func (r *PostRepository) List(ctx context.Context, filter models.PostFilter) ([]models.PostView, error) {
	cols := []string{"p.id", "p.author_id", "p.content", "p.company", "p.field", "p.likes", "p.comments", "p.created_at"}
	cols = append(cols, summaryColumns("a")...)

	builder := psql.Select(cols...).
		From("posts p").
		Join("users a ON a.id = p.author_id").
		OrderBy("p.created_at DESC", "p.id DESC")

	var anyOf sq.Or
	if filter.Company != "" {
		anyOf = append(anyOf, sq.ILike{"p.company": containsPattern(filter.Company)})
	}
	if filter.Field != "" {
		anyOf = append(anyOf, sq.ILike{"p.field": containsPattern(filter.Field)})
	}
	if len(anyOf) > 0 {
		builder = builder.Where(anyOf)
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

	views := make([]models.PostView, 0)
	for rows.Next() {
		var view models.PostView
		dest := []any{
			&view.ID,
			&view.AuthorID,
			&view.Content,
			&view.Company,
			&view.Field,
			&view.Likes,
			&view.Comments,
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
