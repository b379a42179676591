package app

import (
	"context"
	"fmt"
	"time"

	"screening-service/internal/domain"
	"screening-service/internal/screening"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDirectoryLimit caps directory listings when the caller does not ask for a limit.
const DefaultDirectoryLimit = 50

// CatalogRepository loads the question catalog (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) (domain.Catalog, error)
}

// TherapistDirectory lists therapist resources in a stable directory order.
type TherapistDirectory interface {
	ListTherapists(ctx context.Context, filter domain.TherapistFilter) ([]domain.TherapistResource, error)
}

// ResultRepository persists screening records. Listings are newest first.
type ResultRepository interface {
	Save(ctx context.Context, record domain.ScreeningRecord) error
	Get(ctx context.Context, id string) (domain.ScreeningRecord, error)
	ListByChild(ctx context.Context, childID string) ([]domain.ScreeningRecord, error)
}

// Submission is one caregiver questionnaire submission. An empty Conditions list means
// the whole catalog was administered.
type Submission struct {
	ChildID    string
	Conditions []domain.Condition
	Answers    []domain.Answer
	Region     string
	Location   *domain.Coordinates
}

// Config wires the engine and tunables into the service.
type Config struct {
	Interpreter         *screening.Interpreter
	Matcher             *screening.Matcher
	RecommendationLimit int
	Logger              *zap.Logger
	Now                 func() time.Time
	NewID               func() string
}

// ScreeningService contains the screening use cases.
type ScreeningService struct {
	catalog     CatalogRepository
	directory   TherapistDirectory
	results     ResultRepository
	interpreter *screening.Interpreter
	matcher     *screening.Matcher
	limit       int
	log         *zap.Logger
	now         func() time.Time
	newID       func() string
}

func NewScreeningService(catalog CatalogRepository, directory TherapistDirectory, results ResultRepository, cfg Config) (*ScreeningService, error) {
	s := &ScreeningService{
		catalog:     catalog,
		directory:   directory,
		results:     results,
		interpreter: cfg.Interpreter,
		matcher:     cfg.Matcher,
		limit:       cfg.RecommendationLimit,
		log:         cfg.Logger,
		now:         cfg.Now,
		newID:       cfg.NewID,
	}
	if s.interpreter == nil {
		in, err := screening.NewInterpreter(screening.DefaultInterpreterConfig())
		if err != nil {
			return nil, err
		}
		s.interpreter = in
	}
	if s.matcher == nil {
		s.matcher = screening.DefaultMatcher()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s, nil
}

// Questions returns the catalog, optionally restricted to some conditions.
func (s *ScreeningService) Questions(ctx context.Context, conditions ...domain.Condition) ([]domain.Question, error) {
	catalog, err := s.administered(ctx, conditions)
	if err != nil {
		return nil, err
	}
	return catalog.Questions(), nil
}

// Therapists lists directory entries matching the filter.
func (s *ScreeningService) Therapists(ctx context.Context, filter domain.TherapistFilter) ([]domain.TherapistResource, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultDirectoryLimit
	}
	return s.directory.ListTherapists(ctx, filter)
}

// Evaluate runs validation, scoring, interpretation and matching without persisting.
func (s *ScreeningService) Evaluate(ctx context.Context, sub Submission) (domain.ScreeningResult, error) {
	catalog, err := s.administered(ctx, sub.Conditions)
	if err != nil {
		return domain.ScreeningResult{}, err
	}

	if err := screening.Validate(sub.Answers, catalog); err != nil {
		return domain.ScreeningResult{}, err
	}
	byCondition, err := screening.Score(sub.Answers, catalog)
	if err != nil {
		return domain.ScreeningResult{}, err
	}
	scores := screening.OrderedScores(byCondition)
	interpretations, err := s.interpreter.InterpretAll(scores)
	if err != nil {
		return domain.ScreeningResult{}, err
	}
	breakdown, err := screening.Breakdown(sub.Answers, catalog)
	if err != nil {
		return domain.ScreeningResult{}, err
	}
	recommendations, err := s.recommend(ctx, interpretations, sub)
	if err != nil {
		return domain.ScreeningResult{}, err
	}

	return domain.ScreeningResult{
		ID:              s.newID(),
		ChildID:         sub.ChildID,
		CreatedAt:       s.now().UTC(),
		Scores:          scores,
		Interpretations: interpretations,
		Recommendations: recommendations,
		Answers:         append([]domain.Answer(nil), sub.Answers...),
		Breakdown:       breakdown,
	}, nil
}

// Submit evaluates a submission and persists the resulting record.
func (s *ScreeningService) Submit(ctx context.Context, sub Submission) (domain.ScreeningResult, error) {
	result, err := s.Evaluate(ctx, sub)
	if err != nil {
		s.log.Debug("screening rejected", zap.String("child_id", sub.ChildID), zap.Error(err))
		return domain.ScreeningResult{}, err
	}
	if err := s.results.Save(ctx, result.Record()); err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("save screening: %w", err)
	}

	fields := []zap.Field{
		zap.String("screening_id", result.ID),
		zap.String("child_id", result.ChildID),
		zap.Int("recommendations", len(result.Recommendations)),
	}
	for _, in := range result.Interpretations {
		fields = append(fields, zap.String(string(in.Condition), in.Tier.String()))
	}
	s.log.Info("screening submitted", fields...)
	return result, nil
}

// Get loads a stored screening and recomputes its interpretations from the stored totals.
func (s *ScreeningService) Get(ctx context.Context, id string) (domain.ScreeningResult, error) {
	record, err := s.results.Get(ctx, id)
	if err != nil {
		return domain.ScreeningResult{}, err
	}
	return s.reinterpret(record)
}

// History lists a child's screenings, newest first.
func (s *ScreeningService) History(ctx context.Context, childID string) ([]domain.ScreeningResult, error) {
	records, err := s.results.ListByChild(ctx, childID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ScreeningResult, 0, len(records))
	for _, r := range records {
		result, err := s.reinterpret(r)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, nil
}

// StartDraft opens an in-progress questionnaire for the given conditions.
func (s *ScreeningService) StartDraft(ctx context.Context, childID string, conditions []domain.Condition) (*Draft, error) {
	catalog, err := s.administered(ctx, conditions)
	if err != nil {
		return nil, err
	}
	return newDraft(childID, conditions, catalog), nil
}

func (s *ScreeningService) administered(ctx context.Context, conditions []domain.Condition) (domain.Catalog, error) {
	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	return catalog.Subset(conditions...)
}

// recommend only touches the directory when at least one condition is noteworthy.
func (s *ScreeningService) recommend(ctx context.Context, interpretations []domain.Interpretation, sub Submission) ([]domain.TherapistResource, error) {
	noteworthy := s.matcher.Noteworthy(interpretations)
	if len(noteworthy) == 0 {
		return []domain.TherapistResource{}, nil
	}
	candidates, err := s.directory.ListTherapists(ctx, domain.TherapistFilter{
		Conditions: noteworthy,
		Region:     sub.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("list therapists: %w", err)
	}

	var rank screening.RankKey
	if sub.Location != nil {
		rank = screening.ByDistance(*sub.Location)
	}
	return s.matcher.Recommend(interpretations, sub.Region, candidates, s.limit, rank), nil
}

func (s *ScreeningService) reinterpret(record domain.ScreeningRecord) (domain.ScreeningResult, error) {
	scores := append([]domain.ConditionScore(nil), record.Scores...)
	domain.SortScores(scores)
	interpretations, err := s.interpreter.InterpretAll(scores)
	if err != nil {
		return domain.ScreeningResult{}, err
	}
	return domain.ScreeningResult{
		ID:              record.ID,
		ChildID:         record.ChildID,
		CreatedAt:       record.CreatedAt,
		Scores:          scores,
		Interpretations: interpretations,
		Recommendations: []domain.TherapistResource{},
		Answers:         record.Answers,
	}, nil
}
