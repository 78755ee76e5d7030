package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(_ context.Context, post models.Post) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.posts[post.ID] = post
	return nil
}

func (r *PostRepository) List(_ context.Context, filter models.PostFilter) ([]models.PostView, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	views := make([]models.PostView, 0)
	for _, post := range r.db.posts {
		if filter.Company != "" || filter.Field != "" {
			companyHit := filter.Company != "" && containsFold(post.Company, filter.Company)
			fieldHit := filter.Field != "" && containsFold(post.Field, filter.Field)
			if !companyHit && !fieldHit {
				continue
			}
		}
		author, ok := r.db.summary(post.AuthorID)
		if !ok {
			continue
		}
		views = append(views, models.PostView{Post: post, Author: author})
	}
	sortNewestFirst(views, func(v models.PostView) (time.Time, string) { return v.CreatedAt, v.ID })
	return views, nil
}

type InterviewGuideRepository struct {
	db *DB
}

func NewInterviewGuideRepository(db *DB) *InterviewGuideRepository {
	return &InterviewGuideRepository{db: db}
}

func (r *InterviewGuideRepository) Create(_ context.Context, guide models.InterviewGuide) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.guides[guide.ID] = guide
	return nil
}

func (r *InterviewGuideRepository) List(_ context.Context, company string) ([]models.InterviewGuideView, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	views := make([]models.InterviewGuideView, 0)
	for _, guide := range r.db.guides {
		if company != "" && !strings.Contains(strings.ToLower(guide.Company), strings.ToLower(company)) {
			continue
		}
		author, ok := r.db.summary(guide.AuthorID)
		if !ok {
			continue
		}
		views = append(views, models.InterviewGuideView{InterviewGuide: guide, Author: author})
	}
	sortNewestFirst(views, func(v models.InterviewGuideView) (time.Time, string) { return v.CreatedAt, v.ID })
	return views, nil
}

func (r *InterviewGuideRepository) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.guides), nil
}

type AssessmentRepository struct {
	db *DB
}

func NewAssessmentRepository(db *DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func (r *AssessmentRepository) Create(_ context.Context, assessment models.Assessment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.assessments[assessment.ID] = assessment
	return nil
}

func (r *AssessmentRepository) GetByID(_ context.Context, id string) (models.Assessment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	a, ok := r.db.assessments[id]
	if !ok {
		return models.Assessment{}, repository.ErrAssessmentNotFound
	}
	return a, nil
}

func (r *AssessmentRepository) List(_ context.Context) ([]models.Assessment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	assessments := make([]models.Assessment, 0, len(r.db.assessments))
	for _, a := range r.db.assessments {
		assessments = append(assessments, a)
	}
	sort.Slice(assessments, func(i, j int) bool {
		if assessments[i].Title != assessments[j].Title {
			return assessments[i].Title < assessments[j].Title
		}
		return assessments[i].ID < assessments[j].ID
	})
	return assessments, nil
}

func (r *AssessmentRepository) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.assessments), nil
}

func (r *AssessmentRepository) CreateResult(_ context.Context, result models.AssessmentResult) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.results[result.ID] = result
	return nil
}

func (r *AssessmentRepository) ListResultsByUser(_ context.Context, userID string) ([]models.AssessmentResult, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	results := make([]models.AssessmentResult, 0)
	for _, result := range r.db.results {
		if result.UserID == userID {
			results = append(results, result)
		}
	}
	sortNewestFirst(results, func(v models.AssessmentResult) (time.Time, string) { return v.CreatedAt, v.ID })
	return results, nil
}

type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(_ context.Context, event models.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if event.Images == nil {
		event.Images = []string{}
	}
	r.db.events[event.ID] = event
	return nil
}

func (r *EventRepository) List(_ context.Context) ([]models.EventView, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	views := make([]models.EventView, 0)
	for _, event := range r.db.events {
		organizer, ok := r.db.summary(event.OrganizerID)
		if !ok {
			continue
		}
		views = append(views, models.EventView{Event: event, Organizer: organizer})
	}
	sortNewestFirst(views, func(v models.EventView) (time.Time, string) { return v.Date, v.ID })
	return views, nil
}

type PlacementRepository struct {
	db *DB
}

func NewPlacementRepository(db *DB) *PlacementRepository {
	return &PlacementRepository{db: db}
}

func (r *PlacementRepository) Create(_ context.Context, placement models.Placement) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.placements = append(r.db.placements, placement)
	return nil
}

func (r *PlacementRepository) List(_ context.Context) ([]models.PlacementView, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	views := make([]models.PlacementView, 0, len(r.db.placements))
	for _, p := range r.db.placements {
		student, ok := r.db.summary(p.StudentID)
		if !ok {
			continue
		}
		views = append(views, models.PlacementView{Placement: p, Student: student})
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Year != views[j].Year {
			return views[i].Year > views[j].Year
		}
		return newestFirst(views[i].CreatedAt, views[j].CreatedAt, views[i].ID, views[j].ID)
	})
	return views, nil
}

// ListAll returns placements in insertion order.
func (r *PlacementRepository) ListAll(_ context.Context) ([]models.Placement, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	placements := make([]models.Placement, len(r.db.placements))
	copy(placements, r.db.placements)
	return placements, nil
}
