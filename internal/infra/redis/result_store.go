package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"screening-service/internal/domain"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// ResultStore keeps screening records in Redis.
// Records are stored as: SET   screening:result:{id}      {record JSON}
// History is kept as:    LPUSH screening:child:{childID}  {id}
// A zero ttl keeps records forever.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func (s *ResultStore) Save(ctx context.Context, record domain.ScreeningRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode screening %s: %w", record.ID, err)
	}
	exists, err := s.client.Exists(ctx, s.resultKey(record.ID)).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.resultKey(record.ID), raw, s.ttl)
	if exists == 0 {
		pipe.LPush(ctx, s.childKey(record.ChildID), record.ID)
	}
	if s.ttl > 0 {
		pipe.Expire(ctx, s.childKey(record.ChildID), s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *ResultStore) Get(ctx context.Context, id string) (domain.ScreeningRecord, error) {
	raw, err := s.client.Get(ctx, s.resultKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ScreeningRecord{}, domain.ErrScreeningNotFound
	}
	if err != nil {
		return domain.ScreeningRecord{}, err
	}
	var record domain.ScreeningRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return domain.ScreeningRecord{}, fmt.Errorf("decode screening %s: %w", id, err)
	}
	return record, nil
}

// ListByChild returns the child's records newest first. Expired records are skipped.
func (s *ResultStore) ListByChild(ctx context.Context, childID string) ([]domain.ScreeningRecord, error) {
	ids, err := s.client.LRange(ctx, s.childKey(childID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]domain.ScreeningRecord, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.resultKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var record domain.ScreeningRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("decode screening %s: %w", ids[i], err)
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *ResultStore) resultKey(id string) string {
	return "screening:result:" + id
}

func (s *ResultStore) childKey(childID string) string {
	return "screening:child:" + childID
}
