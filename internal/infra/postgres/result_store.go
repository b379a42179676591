package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"screening-service/internal/domain"

	"github.com/uptrace/bun"
)

// ResultStore persists screening records across the screenings, screening_scores
// and screening_answers tables.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

// Save writes the record in one transaction, replacing any previous rows for the same id.
func (s *ResultStore) Save(ctx context.Context, record domain.ScreeningRecord) error {
	m := newScreeningModel(record)
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(m).
			On("CONFLICT (id) DO UPDATE").
			Set("child_id = EXCLUDED.child_id").
			Set("created_at = EXCLUDED.created_at").
			Exec(ctx); err != nil {
			return fmt.Errorf("insert screening: %w", err)
		}
		if _, err := tx.NewDelete().Model((*scoreModel)(nil)).Where("screening_id = ?", m.ID).Exec(ctx); err != nil {
			return fmt.Errorf("clear scores: %w", err)
		}
		if _, err := tx.NewDelete().Model((*answerModel)(nil)).Where("screening_id = ?", m.ID).Exec(ctx); err != nil {
			return fmt.Errorf("clear answers: %w", err)
		}
		if len(m.Scores) > 0 {
			if _, err := tx.NewInsert().Model(&m.Scores).Exec(ctx); err != nil {
				return fmt.Errorf("insert scores: %w", err)
			}
		}
		if len(m.Answers) > 0 {
			if _, err := tx.NewInsert().Model(&m.Answers).Exec(ctx); err != nil {
				return fmt.Errorf("insert answers: %w", err)
			}
		}
		return nil
	})
}

func (s *ResultStore) Get(ctx context.Context, id string) (domain.ScreeningRecord, error) {
	m := new(screeningModel)
	err := s.selectScreenings(m).Where("s.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ScreeningRecord{}, domain.ErrScreeningNotFound
	}
	if err != nil {
		return domain.ScreeningRecord{}, fmt.Errorf("get screening: %w", err)
	}
	return m.record(), nil
}

func (s *ResultStore) ListByChild(ctx context.Context, childID string) ([]domain.ScreeningRecord, error) {
	var models []*screeningModel
	err := s.selectScreenings(&models).
		Where("s.child_id = ?", childID).
		Order("s.created_at DESC", "s.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list screenings: %w", err)
	}
	out := make([]domain.ScreeningRecord, 0, len(models))
	for _, m := range models {
		out = append(out, m.record())
	}
	return out, nil
}

func (s *ResultStore) selectScreenings(model interface{}) *bun.SelectQuery {
	return s.db.NewSelect().Model(model).
		Relation("Scores").
		Relation("Answers", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("sa.position")
		})
}
