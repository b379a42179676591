package domain

import (
	"errors"
	"testing"
)

func TestNewCatalogOrdersByConditionThenOrdinal(t *testing.T) {
	c := NewCatalog([]Question{
		{ID: "d1", Condition: ConditionDyslexia, Ordinal: 1},
		{ID: "a2", Condition: ConditionASD, Ordinal: 2},
		{ID: "h1", Condition: ConditionADHD, Ordinal: 1},
		{ID: "a1", Condition: ConditionASD, Ordinal: 1},
		{ID: "a1", Condition: ConditionASD, Ordinal: 9},
	})

	var got []string
	for _, q := range c.Questions() {
		got = append(got, q.ID)
	}
	want := []string{"a1", "a2", "h1", "d1"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if c.Count(ConditionASD) != 2 {
		t.Fatalf("expected 2 ASD questions, got %d", c.Count(ConditionASD))
	}
}

func TestCatalogSubset(t *testing.T) {
	c := NewCatalog([]Question{
		{ID: "a1", Condition: ConditionASD, Ordinal: 1},
		{ID: "h1", Condition: ConditionADHD, Ordinal: 1},
	})

	sub, err := c.Subset(ConditionADHD)
	if err != nil {
		t.Fatalf("subset: %v", err)
	}
	if sub.Len() != 1 || sub.Has(ConditionASD) {
		t.Fatalf("expected only ADHD questions, got %+v", sub.Questions())
	}

	_, err = c.Subset(ConditionDyslexia)
	if !errors.Is(err, ErrUnknownCondition) {
		t.Fatalf("expected unknown condition, got %v", err)
	}
}

func TestParseConditionAndTier(t *testing.T) {
	if ParseCondition(" adhd ") != ConditionADHD {
		t.Fatalf("expected ADHD")
	}
	if ParseCondition("Dyscalculia") != Condition("Dyscalculia") {
		t.Fatalf("expected passthrough for unknown condition")
	}
	var tier Tier
	if err := tier.UnmarshalText([]byte("moderate")); err != nil || tier != TierModerate {
		t.Fatalf("expected Moderate, got %v (%v)", tier, err)
	}
	if err := tier.UnmarshalText([]byte("severe")); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("expected unknown tier error, got %v", err)
	}
}
