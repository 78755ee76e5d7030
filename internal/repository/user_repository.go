package repository

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"alumniconnect/internal/models"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, username, email, password_hash, role, full_name, college, graduation_year,
			department, company, position, location, bio, avatar, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.Role,
		user.FullName,
		user.College,
		user.GraduationYear,
		user.Department,
		user.Company,
		user.Position,
		user.Location,
		user.Bio,
		user.Avatar,
		user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrUserExists
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
}

func (r *UserRepository) FindFirstByRole(ctx context.Context, role models.UserRole) (models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at, id LIMIT 1`, role)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (models.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	builder := psql.Select(userColumns).From("users").OrderBy("created_at DESC", "id DESC")
	if filter.Role != "" {
		builder = builder.Where(sq.Eq{"role": filter.Role})
	}
	if filter.College != "" {
		builder = builder.Where(sq.Eq{"college": filter.College})
	}
	return r.query(ctx, builder)
}

// SearchAlumni ORs the company and field filters; field matches department or position.
func (r *UserRepository) SearchAlumni(ctx context.Context, filter models.AlumniFilter) ([]models.User, error) {
	builder := psql.Select(userColumns).From("users").
		Where(sq.Eq{"role": models.UserRoleAlumni}).
		OrderBy("created_at DESC", "id DESC")

	var anyOf sq.Or
	if filter.Company != "" {
		anyOf = append(anyOf, sq.ILike{"company": containsPattern(filter.Company)})
	}
	if filter.Field != "" {
		pattern := containsPattern(filter.Field)
		anyOf = append(anyOf, sq.ILike{"department": pattern}, sq.ILike{"position": pattern})
	}
	if len(anyOf) > 0 {
		builder = builder.Where(anyOf)
	}
	return r.query(ctx, builder)
}

func (r *UserRepository) query(ctx context.Context, builder sq.SelectBuilder) ([]models.User, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error) {
	const query = `
		UPDATE users SET
			full_name = COALESCE($2, full_name),
			graduation_year = COALESCE($3, graduation_year),
			department = COALESCE($4, department),
			company = COALESCE($5, company),
			position = COALESCE($6, position),
			location = COALESCE($7, location),
			bio = COALESCE($8, bio),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query,
		id,
		update.FullName,
		update.GraduationYear,
		update.Department,
		update.Company,
		update.Position,
		update.Location,
		update.Bio,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) SetAvatar(ctx context.Context, id string, avatarURL string) error {
	const query = `UPDATE users SET avatar = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, avatarURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE role = $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, role).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
