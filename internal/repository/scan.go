package repository

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"alumniconnect/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const userColumns = `id, username, email, password_hash, role, full_name, college, graduation_year,
	department, company, position, location, bio, avatar, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.FullName,
		&user.College,
		&user.GraduationYear,
		&user.Department,
		&user.Company,
		&user.Position,
		&user.Location,
		&user.Bio,
		&user.Avatar,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// summaryColumns lists the UserSummary columns of the users table aliased as alias.
func summaryColumns(alias string) []string {
	fields := []string{"id", "username", "full_name", "role", "college", "company", "position", "department", "graduation_year", "avatar"}
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = fmt.Sprintf("%s.%s", alias, f)
	}
	return cols
}

// summaryDest returns scan targets in summaryColumns order.
func summaryDest(s *models.UserSummary) []any {
	return []any{
		&s.ID,
		&s.Username,
		&s.FullName,
		&s.Role,
		&s.College,
		&s.Company,
		&s.Position,
		&s.Department,
		&s.GraduationYear,
		&s.Avatar,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s as a literal substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
