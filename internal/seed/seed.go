// Package seed loads the default assessments and interview guides into an
// empty store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"alumniconnect/internal/ids"
	"alumniconnect/internal/models"
	"alumniconnect/internal/repository"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type guideDoc struct {
	Company    string            `yaml:"company"`
	Role       string            `yaml:"role"`
	Experience string            `yaml:"experience"`
	Difficulty models.Difficulty `yaml:"difficulty"`
	Questions  []string          `yaml:"questions"`
	Tips       []string          `yaml:"tips"`
}

type assessmentDoc struct {
	Title          string                      `yaml:"title"`
	Description    string                      `yaml:"description"`
	Category       string                      `yaml:"category"`
	TimeLimit      int                         `yaml:"timeLimit"`
	TotalQuestions int                         `yaml:"totalQuestions"`
	Questions      []models.AssessmentQuestion `yaml:"questions"`
}

type Defaults struct {
	Assessments []assessmentDoc `yaml:"assessments"`
	Guides      []guideDoc      `yaml:"guides"`
}

func LoadDefaults() (Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		return Defaults{}, fmt.Errorf("decode seed defaults: %w", err)
	}
	return d, nil
}

type Seeder struct {
	users       repository.UserStore
	guides      repository.InterviewGuideStore
	assessments repository.AssessmentStore
	now         func() time.Time
	log         zerolog.Logger
}

func NewSeeder(stores repository.Stores, log zerolog.Logger) *Seeder {
	return &Seeder{
		users:       stores.Users,
		guides:      stores.Guides,
		assessments: stores.Assessments,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// Run inserts each default collection only when its table is empty.
func (s *Seeder) Run(ctx context.Context) error {
	defaults, err := LoadDefaults()
	if err != nil {
		return err
	}
	if err := s.seedAssessments(ctx, defaults.Assessments); err != nil {
		return err
	}
	return s.seedGuides(ctx, defaults.Guides)
}

func (s *Seeder) seedAssessments(ctx context.Context, docs []assessmentDoc) error {
	count, err := s.assessments.Count(ctx)
	if err != nil {
		return fmt.Errorf("count assessments: %w", err)
	}
	if count > 0 {
		s.log.Debug().Int("count", count).Msg("assessments present, skipping seed")
		return nil
	}

	for _, doc := range docs {
		total := doc.TotalQuestions
		if total == 0 {
			total = len(doc.Questions)
		}
		assessment := models.Assessment{
			ID:             ids.New(),
			Title:          doc.Title,
			Description:    doc.Description,
			Category:       doc.Category,
			Questions:      doc.Questions,
			TimeLimit:      doc.TimeLimit,
			TotalQuestions: total,
			CreatedAt:      s.now(),
		}
		if err := s.assessments.Create(ctx, assessment); err != nil {
			return fmt.Errorf("seed assessment %q: %w", doc.Title, err)
		}
	}
	s.log.Info().Int("count", len(docs)).Msg("default assessments seeded")
	return nil
}

func (s *Seeder) seedGuides(ctx context.Context, docs []guideDoc) error {
	count, err := s.guides.Count(ctx)
	if err != nil {
		return fmt.Errorf("count interview guides: %w", err)
	}
	if count > 0 {
		return nil
	}

	author, err := s.users.FindFirstByRole(ctx, models.UserRoleStaff)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.Info().Msg("no staff account yet, skipping interview guide seed")
			return nil
		}
		return fmt.Errorf("find guide author: %w", err)
	}

	for _, doc := range docs {
		guide := models.InterviewGuide{
			ID:         ids.New(),
			AuthorID:   author.ID,
			Company:    doc.Company,
			Role:       doc.Role,
			Experience: doc.Experience,
			Questions:  doc.Questions,
			Difficulty: doc.Difficulty,
			CreatedAt:  s.now(),
		}
		if len(doc.Tips) > 0 {
			tips := strings.Join(doc.Tips, "\n")
			guide.Tips = &tips
		}
		if err := s.guides.Create(ctx, guide); err != nil {
			return fmt.Errorf("seed interview guide %q: %w", doc.Company, err)
		}
	}
	s.log.Info().Int("count", len(docs)).Str("author_id", author.ID).Msg("default interview guides seeded")
	return nil
}
