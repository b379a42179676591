package redis

import (
	"context"
	"math/rand"
	"time"

	"screening-service/internal/domain"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const catalogKey = "screening:catalog"

// CatalogLoader fetches the question catalog from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// CatalogRepository caches the catalog in Redis and falls back to a loader on cache miss.
// Questions are stored as: HSET screening:catalog {questionID} {question JSON}
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context) (domain.Catalog, error) {
	if catalog, ok := r.fromCache(ctx); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if catalog, ok := r.fromCache(ctx); ok {
			return catalog, nil
		}

		questions, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return domain.Catalog{}, err
		}
		catalog := domain.NewCatalog(questions)

		pipe := r.client.TxPipeline()
		pipe.Del(ctx, catalogKey)
		for _, q := range catalog.Questions() {
			raw, err := json.Marshal(q)
			if err != nil {
				return domain.Catalog{}, err
			}
			pipe.HSet(ctx, catalogKey, q.ID, raw)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, catalogKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return catalog, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

// Invalidate removes the cached catalog.
func (r *CatalogRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, catalogKey).Err()
}

func (r *CatalogRepository) fromCache(ctx context.Context) (domain.Catalog, bool) {
	fields, err := r.client.HGetAll(ctx, catalogKey).Result()
	if err != nil || len(fields) == 0 {
		return domain.Catalog{}, false
	}
	questions := make([]domain.Question, 0, len(fields))
	for _, raw := range fields {
		var q domain.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			// a corrupt entry forces a reload
			return domain.Catalog{}, false
		}
		questions = append(questions, q)
	}
	return domain.NewCatalog(questions), true
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
