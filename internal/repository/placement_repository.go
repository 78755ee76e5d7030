package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"alumniconnect/internal/models"
)

type PlacementRepository struct {
	pool *pgxpool.Pool
}

func NewPlacementRepository(pool *pgxpool.Pool) *PlacementRepository {
	return &PlacementRepository{pool: pool}
}

const placementColumns = `id, student_id, company, role, package, placement_type, year, created_at`

func placementDest(p *models.Placement) []any {
	return []any{
		&p.ID,
		&p.StudentID,
		&p.Company,
		&p.Role,
		&p.Package,
		&p.PlacementType,
		&p.Year,
		&p.CreatedAt,
	}
}

func (r *PlacementRepository) Create(ctx context.Context, placement models.Placement) error {
	const query = `
		INSERT INTO placements (` + placementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		placement.ID,
		placement.StudentID,
		placement.Company,
		placement.Role,
		placement.Package,
		placement.PlacementType,
		placement.Year,
		placement.CreatedAt,
	)
	return err
}

func (r *PlacementRepository) List(ctx context.Context) ([]models.PlacementView, error) {
	cols := []string{
		"p.id", "p.student_id", "p.company", "p.role", "p.package",
		"p.placement_type", "p.year", "p.created_at",
	}
	cols = append(cols, summaryColumns("s")...)

	query, args, err := psql.Select(cols...).
		From("placements p").
		Join("users s ON s.id = p.student_id").
		OrderBy("p.year DESC", "p.created_at DESC", "p.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]models.PlacementView, 0)
	for rows.Next() {
		var view models.PlacementView
		dest := placementDest(&view.Placement)
		dest = append(dest, summaryDest(&view.Student)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

// ListAll returns raw rows in insertion order for aggregation.
func (r *PlacementRepository) ListAll(ctx context.Context) ([]models.Placement, error) {
	const query = `SELECT ` + placementColumns + ` FROM placements ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	placements := make([]models.Placement, 0)
	for rows.Next() {
		var p models.Placement
		if err := rows.Scan(placementDest(&p)...); err != nil {
			return nil, err
		}
		placements = append(placements, p)
	}
	return placements, rows.Err()
}
