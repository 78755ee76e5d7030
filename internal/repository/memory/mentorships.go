package memory

import (
	"context"
	"time"

	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

type MentorshipRepository struct {
	db *DB
}

func NewMentorshipRepository(db *DB) *MentorshipRepository {
	return &MentorshipRepository{db: db}
}

func (r *MentorshipRepository) Create(_ context.Context, mentorship models.Mentorship) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := models.PairKey(mentorship.MentorID, mentorship.MenteeID)
	if _, taken := r.db.pairs[key]; taken {
		return repository.ErrDuplicateMentorship
	}
	mentorship.PairKey = key
	if mentorship.UpdatedAt.IsZero() {
		mentorship.UpdatedAt = mentorship.CreatedAt
	}
	r.db.mentorships[mentorship.ID] = mentorship
	r.db.pairs[key] = mentorship.ID
	return nil
}

func (r *MentorshipRepository) GetByID(_ context.Context, id string) (models.Mentorship, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	m, ok := r.db.mentorships[id]
	if !ok {
		return models.Mentorship{}, repository.ErrMentorshipNotFound
	}
	return m, nil
}

func (r *MentorshipRepository) FindBetween(_ context.Context, userA, userB string) (models.Mentorship, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	id, ok := r.db.pairs[models.PairKey(userA, userB)]
	if !ok {
		return models.Mentorship{}, repository.ErrMentorshipNotFound
	}
	return r.db.mentorships[id], nil
}

func (r *MentorshipRepository) List(_ context.Context, filter models.MentorshipFilter) ([]models.MentorshipView, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	views := make([]models.MentorshipView, 0)
	for _, m := range r.db.mentorships {
		if filter.MentorID != "" && m.MentorID != filter.MentorID {
			continue
		}
		if filter.MenteeID != "" && m.MenteeID != filter.MenteeID {
			continue
		}
		mentor, ok := r.db.summary(m.MentorID)
		if !ok {
			continue
		}
		mentee, ok := r.db.summary(m.MenteeID)
		if !ok {
			continue
		}
		views = append(views, models.MentorshipView{Mentorship: m, Mentor: mentor, Mentee: mentee})
	}
	sortNewestFirst(views, func(v models.MentorshipView) (time.Time, string) { return v.CreatedAt, v.ID })
	return views, nil
}

func (r *MentorshipRepository) UpdateStatus(_ context.Context, id string, from, to models.MentorshipStatus, at time.Time) (models.Mentorship, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	m, ok := r.db.mentorships[id]
	if !ok {
		return models.Mentorship{}, repository.ErrMentorshipNotFound
	}
	if m.Status != from {
		return models.Mentorship{}, repository.ErrStatusChanged
	}
	m.Status = to
	m.UpdatedAt = at
	r.db.mentorships[id] = m
	return m, nil
}

func (r *MentorshipRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	m, ok := r.db.mentorships[id]
	if !ok {
		return repository.ErrMentorshipNotFound
	}
	delete(r.db.mentorships, id)
	delete(r.db.pairs, m.PairKey)
	for msgID, msg := range r.db.messages {
		if msg.MentorshipID == id {
			delete(r.db.messages, msgID)
		}
	}
	return nil
}
