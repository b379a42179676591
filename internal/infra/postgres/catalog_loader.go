package postgres

import (
	"context"
	"fmt"

	"screening-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads the question catalog from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, condition, text, ordinal, COALESCE(category, '')
		FROM questions ORDER BY condition, ordinal, id`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q         domain.Question
			condition string
		)
		if err := rows.Scan(&q.ID, &condition, &q.Text, &q.Ordinal, &q.Category); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Condition = domain.ParseCondition(condition)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return questions, nil
}
