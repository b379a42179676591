package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"screening-service/internal/domain"
)

func TestResultStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"s1", "s2"} {
		err := store.Save(ctx, domain.ScreeningRecord{
			ID:        id,
			ChildID:   "child-1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Scores:    []domain.ConditionScore{{Condition: domain.ConditionASD, Total: 10 + i, MaxPossible: 80}},
		})
		if err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Scores[0].Total != 10 {
		t.Fatalf("expected stored total 10, got %+v", got.Scores)
	}

	history, err := store.ListByChild(ctx, "child-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(history) != 2 || history[0].ID != "s2" {
		t.Fatalf("expected newest first, got %+v", history)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, domain.ErrScreeningNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTherapistDirectoryFilters(t *testing.T) {
	dir := NewTherapistDirectory([]domain.TherapistResource{
		{ID: "t1", Name: "Bright Steps", City: "Oakland", Region: "California", Specializations: []domain.Condition{domain.ConditionASD}, Services: []string{"Speech therapy"}},
		{ID: "t2", Name: "Focus Kids", City: "Austin", Region: "Texas", Specializations: []domain.Condition{domain.ConditionADHD}},
		{ID: "t3", Name: "Spectrum Center", City: "San Diego", Region: "California", Specializations: []domain.Condition{domain.ConditionASD, domain.ConditionADHD}},
	})

	got, _ := dir.ListTherapists(context.Background(), domain.TherapistFilter{Conditions: []domain.Condition{domain.ConditionADHD}, Region: "ca"})
	if len(got) != 1 || got[0].ID != "t3" {
		t.Fatalf("expected t3, got %+v", got)
	}

	got, _ = dir.ListTherapists(context.Background(), domain.TherapistFilter{Query: "speech"})
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("expected service match t1, got %+v", got)
	}

	got, _ = dir.ListTherapists(context.Background(), domain.TherapistFilter{Limit: 2})
	if len(got) != 2 || got[1].ID != "t2" {
		t.Fatalf("expected first two in order, got %+v", got)
	}
}
