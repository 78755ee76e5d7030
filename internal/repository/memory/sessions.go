package memory

import (
	"context"
	"sort"
	"time"

	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

type SessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(_ context.Context, session models.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if session.LastSeenAt.IsZero() {
		session.LastSeenAt = session.CreatedAt
	}
	r.db.sessions[session.ID] = session
	return nil
}

func (r *SessionRepository) GetByID(_ context.Context, id string) (models.Session, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	session, ok := r.db.sessions[id]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

// byLastSeen must be called with the lock held.
func (r *SessionRepository) byLastSeen(userID string) []models.Session {
	sessions := make([]models.Session, 0)
	for _, session := range r.db.sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].LastSeenAt.Equal(sessions[j].LastSeenAt) {
			return sessions[i].LastSeenAt.After(sessions[j].LastSeenAt)
		}
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions
}

func (r *SessionRepository) ListByUser(_ context.Context, userID string) ([]models.Session, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.byLastSeen(userID), nil
}

func (r *SessionRepository) CountByUser(_ context.Context, userID string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.byLastSeen(userID)), nil
}

func (r *SessionRepository) DeleteOldestSessions(_ context.Context, userID string, keepLatest int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	sessions := r.byLastSeen(userID)
	if keepLatest < 0 {
		keepLatest = 0
	}
	for i := keepLatest; i < len(sessions); i++ {
		delete(r.db.sessions, sessions[i].ID)
	}
	return nil
}

func (r *SessionRepository) DeleteByID(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.sessions[id]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(r.db.sessions, id)
	return nil
}

func (r *SessionRepository) DeleteForUser(_ context.Context, userID string, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	session, ok := r.db.sessions[id]
	if !ok || session.UserID != userID {
		return repository.ErrSessionNotFound
	}
	delete(r.db.sessions, id)
	return nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var removed int64
	for id, session := range r.db.sessions {
		if session.Expired(now) {
			delete(r.db.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (r *SessionRepository) Touch(_ context.Context, id string, ip string, userAgent string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	session, ok := r.db.sessions[id]
	if !ok {
		return nil
	}
	session.LastSeenAt = r.db.now()
	if ip != "" {
		session.IPAddress = ip
	}
	if userAgent != "" {
		session.UserAgent = userAgent
	}
	r.db.sessions[id] = session
	return nil
}
