package redis

import (
	"context"
	"testing"
	"time"

	"screening-service/internal/domain"
	"screening-service/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCatalogRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{CatalogLoader: memory.NewStaticCatalogLoader(sampleQuestions())}
	repo := NewCatalogRepository(client, loader, time.Minute)

	catalog, err := repo.GetCatalog(context.Background())
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists(catalogKey) {
		t.Fatalf("expected catalog hash in redis")
	}
	if ttl := mr.TTL(catalogKey); ttl < time.Minute {
		t.Fatalf("expected ttl with jitter >= 1m, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetCatalog(context.Background())
	if err != nil {
		t.Fatalf("get catalog 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Len() != catalog.Len() {
		t.Fatalf("cached catalog differs: %d vs %d", cached.Len(), catalog.Len())
	}
	q, ok := cached.Lookup("asd-02")
	if !ok || q.Text != "Lines up toys" || q.Category != "repetitive" {
		t.Fatalf("cached question not restored: %+v", q)
	}
	if got := cached.Questions()[0].ID; got != "asd-01" {
		t.Fatalf("expected catalog order restored, first is %s", got)
	}

	if err := repo.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.GetCatalog(context.Background())
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls)
	}
}

func TestCatalogRepositoryReloadsAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{CatalogLoader: memory.NewStaticCatalogLoader(sampleQuestions())}
	repo := NewCatalogRepository(newClient(mr), loader, time.Minute)

	_, _ = repo.GetCatalog(context.Background())
	mr.FastForward(2 * time.Minute)
	_, _ = repo.GetCatalog(context.Background())
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls=%d", loader.calls)
	}
}

type countingLoader struct {
	memory.CatalogLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.CatalogLoader.LoadQuestions(ctx)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "asd-01", Condition: domain.ConditionASD, Text: "Avoids eye contact", Ordinal: 1, Category: "social"},
		{ID: "adhd-01", Condition: domain.ConditionADHD, Text: "Fidgets when seated", Ordinal: 1, Category: "hyperactivity"},
		{ID: "asd-02", Condition: domain.ConditionASD, Text: "Lines up toys", Ordinal: 2, Category: "repetitive"},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
