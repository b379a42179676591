package postgres

import (
	"context"
	"fmt"

	"screening-service/internal/domain"

	"github.com/uptrace/bun"
)

// Seeder upserts catalog and directory content.
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

func (s *Seeder) UpsertQuestions(ctx context.Context, questions []domain.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	models := make([]*questionModel, 0, len(questions))
	for _, q := range questions {
		models = append(models, &questionModel{
			ID:        q.ID,
			Condition: string(q.Condition),
			Text:      q.Text,
			Ordinal:   q.Ordinal,
			Category:  q.Category,
		})
	}
	_, err := s.db.NewInsert().Model(&models).
		On("CONFLICT (id) DO UPDATE").
		Set("condition = EXCLUDED.condition").
		Set("text = EXCLUDED.text").
		Set("ordinal = EXCLUDED.ordinal").
		Set("category = EXCLUDED.category").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("upsert questions: %w", err)
	}
	return len(models), nil
}

func (s *Seeder) UpsertTherapists(ctx context.Context, therapists []domain.TherapistResource) (int, error) {
	if len(therapists) == 0 {
		return 0, nil
	}
	models := make([]*therapistModel, 0, len(therapists))
	for _, t := range therapists {
		models = append(models, newTherapistModel(t))
	}
	q := s.db.NewInsert().Model(&models).On("CONFLICT (id) DO UPDATE")
	for _, col := range []string{"name", "address", "city", "region", "phone", "email", "website", "specializations", "services", "lat", "lng"} {
		q = q.Set(col + " = EXCLUDED." + col)
	}
	if _, err := q.Exec(ctx); err != nil {
		return 0, fmt.Errorf("upsert therapists: %w", err)
	}
	return len(models), nil
}
