package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"alumniconnect/internal/models"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, event models.Event) error {
	const query = `
		INSERT INTO events (
			id, title, description, category, date, location, images, chief_guest, organizer_id, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`
	images := event.Images
	if images == nil {
		images = []string{}
	}
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Category,
		event.Date,
		event.Location,
		images,
		event.ChiefGuest,
		event.OrganizerID,
		event.CreatedAt,
	)
	return err
}

func (r *EventRepository) List(ctx context.Context) ([]models.EventView, error) {
	cols := []string{
		"e.id", "e.title", "e.description", "e.category", "e.date",
		"e.location", "e.images", "e.chief_guest", "e.organizer_id", "e.created_at",
	}
	cols = append(cols, summaryColumns("o")...)

	query, args, err := psql.Select(cols...).
		From("events e").
		Join("users o ON o.id = e.organizer_id").
		OrderBy("e.date DESC", "e.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]models.EventView, 0)
	for rows.Next() {
		var view models.EventView
		dest := []any{
			&view.ID,
			&view.Title,
			&view.Description,
			&view.Category,
			&view.Date,
			&view.Location,
			&view.Images,
			&view.ChiefGuest,
			&view.OrganizerID,
			&view.CreatedAt,
		}
		dest = append(dest, summaryDest(&view.Organizer)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}
