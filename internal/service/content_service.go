package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/ids"
	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

// ContentService covers the feed, interview guides, assessments, events and placements.
type ContentService struct {
	users       repository.UserStore
	posts       repository.PostStore
	guides      repository.InterviewGuideStore
	assessments repository.AssessmentStore
	events      repository.EventStore
	placements  repository.PlacementStore
	now         func() time.Time
	log         zerolog.Logger
}

func NewContentService(stores repository.Stores, log zerolog.Logger) *ContentService {
	return &ContentService{
		users:       stores.Users,
		posts:       stores.Posts,
		guides:      stores.Guides,
		assessments: stores.Assessments,
		events:      stores.Events,
		placements:  stores.Placements,
		now:         systemClock,
		log:         log,
	}
}

type CreatePostInput struct {
	AuthorID string
	Content  string
	Company  *string
	Field    *string
}

func (s *ContentService) CreatePost(ctx context.Context, input CreatePostInput) (models.Post, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return models.Post{}, apperrors.Validation("content is required")
	}
	post := models.Post{
		ID:        ids.New(),
		AuthorID:  input.AuthorID,
		Content:   content,
		Company:   trimOptional(input.Company),
		Field:     trimOptional(input.Field),
		CreatedAt: s.now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *ContentService) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.PostView, error) {
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

type CreateGuideInput struct {
	AuthorID   string
	Company    string
	Role       string
	Experience string
	Questions  []string
	Tips       *string
	Difficulty models.Difficulty
}

func (s *ContentService) CreateGuide(ctx context.Context, input CreateGuideInput) (models.InterviewGuide, error) {
	questions := make([]string, 0, len(input.Questions))
	for _, q := range input.Questions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	guide := models.InterviewGuide{
		ID:         ids.New(),
		AuthorID:   input.AuthorID,
		Company:    strings.TrimSpace(input.Company),
		Role:       strings.TrimSpace(input.Role),
		Experience: strings.TrimSpace(input.Experience),
		Questions:  questions,
		Tips:       trimOptional(input.Tips),
		Difficulty: input.Difficulty,
		CreatedAt:  s.now(),
	}
	if err := s.guides.Create(ctx, guide); err != nil {
		return models.InterviewGuide{}, fmt.Errorf("create interview guide: %w", err)
	}
	return guide, nil
}

func (s *ContentService) ListGuides(ctx context.Context, company string) ([]models.InterviewGuideView, error) {
	guides, err := s.guides.List(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("list interview guides: %w", err)
	}
	return guides, nil
}

type CreateAssessmentInput struct {
	Title          string
	Description    string
	Category       string
	Questions      []models.AssessmentQuestion
	TimeLimit      int
	TotalQuestions int
}

func (s *ContentService) CreateAssessment(ctx context.Context, input CreateAssessmentInput) (models.Assessment, error) {
	for i, q := range input.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return models.Assessment{}, apperrors.Validation(fmt.Sprintf("questions[%d].correctAnswer must index one of its options", i))
		}
	}
	total := input.TotalQuestions
	if total == 0 {
		total = len(input.Questions)
	}
	assessment := models.Assessment{
		ID:             ids.New(),
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Category:       input.Category,
		Questions:      input.Questions,
		TimeLimit:      input.TimeLimit,
		TotalQuestions: total,
		CreatedAt:      s.now(),
	}
	if err := s.assessments.Create(ctx, assessment); err != nil {
		return models.Assessment{}, fmt.Errorf("create assessment: %w", err)
	}
	return assessment, nil
}

func (s *ContentService) ListAssessments(ctx context.Context) ([]models.Assessment, error) {
	assessments, err := s.assessments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return assessments, nil
}

func (s *ContentService) GetAssessment(ctx context.Context, id string) (models.Assessment, error) {
	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAssessmentNotFound) {
			return models.Assessment{}, apperrors.Wrap(apperrors.KindNotFound, err, "Assessment not found")
		}
		return models.Assessment{}, fmt.Errorf("load assessment: %w", err)
	}
	return assessment, nil
}

type SubmitResultInput struct {
	UserID       string
	AssessmentID string
	Answers      []int
	TimeSpent    int
}

// SubmitResult scores the answers against the stored key; client scores are ignored.
func (s *ContentService) SubmitResult(ctx context.Context, input SubmitResultInput) (models.AssessmentResult, error) {
	assessment, err := s.GetAssessment(ctx, input.AssessmentID)
	if err != nil {
		return models.AssessmentResult{}, err
	}
	answers := input.Answers
	if answers == nil {
		answers = []int{}
	}
	result := models.AssessmentResult{
		ID:             ids.New(),
		UserID:         input.UserID,
		AssessmentID:   assessment.ID,
		Score:          assessment.Score(answers),
		TotalQuestions: len(assessment.Questions),
		TimeSpent:      input.TimeSpent,
		Answers:        answers,
		CreatedAt:      s.now(),
	}
	if err := s.assessments.CreateResult(ctx, result); err != nil {
		return models.AssessmentResult{}, fmt.Errorf("create assessment result: %w", err)
	}
	s.log.Debug().
		Str("user_id", result.UserID).
		Str("assessment_id", result.AssessmentID).
		Int("score", result.Score).
		Msg("assessment submitted")
	return result, nil
}

// ListResults lets users read their own results; staff may read anyone's.
func (s *ContentService) ListResults(ctx context.Context, caller models.User, userID string) ([]models.AssessmentResult, error) {
	if caller.ID != userID && caller.Role != models.UserRoleStaff {
		return nil, apperrors.Forbidden("Insufficient permissions")
	}
	results, err := s.assessments.ListResultsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list assessment results: %w", err)
	}
	return results, nil
}

type CreateEventInput struct {
	OrganizerID string
	Title       string
	Description string
	Category    string
	Date        time.Time
	Location    string
	Images      []string
	ChiefGuest  *string
}

func (s *ContentService) CreateEvent(ctx context.Context, input CreateEventInput) (models.Event, error) {
	images := input.Images
	if images == nil {
		images = []string{}
	}
	event := models.Event{
		ID:          ids.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Date:        input.Date.UTC(),
		Location:    strings.TrimSpace(input.Location),
		Images:      images,
		ChiefGuest:  trimOptional(input.ChiefGuest),
		OrganizerID: input.OrganizerID,
		CreatedAt:   s.now(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return models.Event{}, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *ContentService) ListEvents(ctx context.Context) ([]models.EventView, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

type CreatePlacementInput struct {
	StudentID     string
	Company       string
	Role          string
	Package       int
	PlacementType models.PlacementType
	Year          int
}

func (s *ContentService) CreatePlacement(ctx context.Context, input CreatePlacementInput) (models.Placement, error) {
	if _, err := s.users.GetByID(ctx, input.StudentID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.Placement{}, apperrors.Wrap(apperrors.KindNotFound, err, msgUserNotFound)
		}
		return models.Placement{}, fmt.Errorf("load student: %w", err)
	}
	placement := models.Placement{
		ID:            ids.New(),
		StudentID:     input.StudentID,
		Company:       strings.TrimSpace(input.Company),
		Role:          strings.TrimSpace(input.Role),
		Package:       input.Package,
		PlacementType: input.PlacementType,
		Year:          input.Year,
		CreatedAt:     s.now(),
	}
	if err := s.placements.Create(ctx, placement); err != nil {
		return models.Placement{}, fmt.Errorf("create placement: %w", err)
	}
	return placement, nil
}

func (s *ContentService) ListPlacements(ctx context.Context) ([]models.PlacementView, error) {
	placements, err := s.placements.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list placements: %w", err)
	}
	return placements, nil
}

// PlacementStats recomputes the aggregate on every call.
func (s *ContentService) PlacementStats(ctx context.Context) (models.PlacementStats, error) {
	placements, err := s.placements.ListAll(ctx)
	if err != nil {
		return models.PlacementStats{}, fmt.Errorf("list placements: %w", err)
	}
	students, err := s.users.CountByRole(ctx, models.UserRoleStudent)
	if err != nil {
		return models.PlacementStats{}, fmt.Errorf("count students: %w", err)
	}
	return ComputeStats(placements, students), nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
