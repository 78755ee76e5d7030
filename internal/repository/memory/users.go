package memory

import (
	"context"
	"strings"
	"time"

	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(_ context.Context, user models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	for _, existing := range r.db.users {
		if existing.ID == user.ID || existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrUserExists
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.db.now()
	}
	user.UpdatedAt = user.CreatedAt
	r.db.users[user.ID] = user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	user, ok := r.db.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (models.User, error) {
	email = strings.ToLower(email)
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *UserRepository) FindFirstByRole(_ context.Context, role models.UserRole) (models.User, error) {
	users := r.filter(func(u models.User) bool { return u.Role == role })
	if len(users) == 0 {
		return models.User{}, repository.ErrUserNotFound
	}
	return users[len(users)-1], nil
}

func (r *UserRepository) find(match func(models.User) bool) (models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, user := range r.db.users {
		if match(user) {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

// filter returns matches newest first.
func (r *UserRepository) filter(match func(models.User) bool) []models.User {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	users := make([]models.User, 0)
	for _, user := range r.db.users {
		if match(user) {
			users = append(users, user)
		}
	}
	sortNewestFirst(users, func(u models.User) (time.Time, string) { return u.CreatedAt, u.ID })
	return users
}

func (r *UserRepository) List(_ context.Context, filter models.UserFilter) ([]models.User, error) {
	return r.filter(func(u models.User) bool {
		if filter.Role != "" && u.Role != filter.Role {
			return false
		}
		if filter.College != "" && u.College != filter.College {
			return false
		}
		return true
	}), nil
}

func (r *UserRepository) SearchAlumni(_ context.Context, filter models.AlumniFilter) ([]models.User, error) {
	return r.filter(func(u models.User) bool {
		if u.Role != models.UserRoleAlumni {
			return false
		}
		if filter.Company == "" && filter.Field == "" {
			return true
		}
		if filter.Company != "" && containsFold(u.Company, filter.Company) {
			return true
		}
		return filter.Field != "" && (containsFold(u.Department, filter.Field) || containsFold(u.Position, filter.Field))
	}), nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, id string, update models.ProfileUpdate) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user, ok := r.db.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.GraduationYear != nil {
		user.GraduationYear = update.GraduationYear
	}
	if update.Department != nil {
		user.Department = update.Department
	}
	if update.Company != nil {
		user.Company = update.Company
	}
	if update.Position != nil {
		user.Position = update.Position
	}
	if update.Location != nil {
		user.Location = update.Location
	}
	if update.Bio != nil {
		user.Bio = update.Bio
	}
	user.UpdatedAt = r.db.now()
	r.db.users[id] = user
	return user, nil
}

func (r *UserRepository) SetAvatar(_ context.Context, id string, avatarURL string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user, ok := r.db.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Avatar = &avatarURL
	user.UpdatedAt = r.db.now()
	r.db.users[id] = user
	return nil
}

func (r *UserRepository) CountByRole(_ context.Context, role models.UserRole) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, user := range r.db.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}
