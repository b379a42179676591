package postgres

import (
	"strings"
	"testing"
	"time"

	"screening-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTherapistQueryNoFilter(t *testing.T) {
	query, args := buildTherapistQuery(domain.TherapistFilter{})
	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "LIMIT")
	assert.True(t, strings.HasSuffix(query, "ORDER BY id"))
	assert.Empty(t, args)
}

func TestBuildTherapistQueryAllFilters(t *testing.T) {
	query, args := buildTherapistQuery(domain.TherapistFilter{
		Conditions: []domain.Condition{domain.ConditionASD, domain.ConditionADHD},
		Region:     " CA ",
		Query:      "50%_off",
		Limit:      10,
	})

	assert.Contains(t, query, "specializations && $1::text[]")
	assert.Contains(t, query, "region ILIKE $2")
	assert.Contains(t, query, "name ILIKE $3")
	assert.Contains(t, query, "LIMIT $4")
	require.Len(t, args, 4)
	assert.Equal(t, []string{"ASD", "ADHD"}, args[0])
	assert.Equal(t, "%CA%", args[1])
	assert.Equal(t, `%50\%\_off%`, args[2])
	assert.Equal(t, 10, args[3])
}

func TestScreeningModelRoundTrip(t *testing.T) {
	record := domain.ScreeningRecord{
		ID:        "s1",
		ChildID:   "child-1",
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Scores: []domain.ConditionScore{
			{Condition: domain.ConditionDyslexia, Total: 10, MaxPossible: 100},
			{Condition: domain.ConditionASD, Total: 42, MaxPossible: 80},
		},
		Answers: []domain.Answer{
			{QuestionID: "asd-01", Score: 3},
			{QuestionID: "dys-01", Score: 1, Condition: domain.ConditionDyslexia},
		},
	}

	m := newScreeningModel(record)
	require.Len(t, m.Answers, 2)
	assert.Equal(t, 1, m.Answers[1].Position)

	got := m.record()
	assert.Equal(t, domain.ConditionASD, got.Scores[0].Condition, "scores come back in condition order")
	assert.Equal(t, record.Answers, got.Answers)
}

func TestTherapistModelCoordinates(t *testing.T) {
	m := newTherapistModel(domain.TherapistResource{
		ID:              "t1",
		Specializations: []domain.Condition{domain.ConditionASD},
		Coordinates:     &domain.Coordinates{Lat: 1.5, Lng: -2.5},
	})
	require.NotNil(t, m.Lat)
	assert.Equal(t, 1.5, *m.Lat)
	assert.Equal(t, []string{"ASD"}, m.Specializations)

	bare := newTherapistModel(domain.TherapistResource{ID: "t2"})
	assert.Nil(t, bare.Lat)
	assert.NotNil(t, bare.Specializations)
}
