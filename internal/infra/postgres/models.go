package postgres

import (
	"time"

	"screening-service/internal/domain"

	"github.com/uptrace/bun"
)

type screeningModel struct {
	bun.BaseModel `bun:"table:screenings,alias:s"`

	ID        string    `bun:"id,pk"`
	ChildID   string    `bun:"child_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`

	Scores  []*scoreModel  `bun:"rel:has-many,join:id=screening_id"`
	Answers []*answerModel `bun:"rel:has-many,join:id=screening_id"`
}

type scoreModel struct {
	bun.BaseModel `bun:"table:screening_scores,alias:sc"`

	ScreeningID string `bun:"screening_id,pk"`
	Condition   string `bun:"condition,pk"`
	Total       int    `bun:"total,notnull"`
	MaxPossible int    `bun:"max_possible,notnull"`
}

type answerModel struct {
	bun.BaseModel `bun:"table:screening_answers,alias:sa"`

	ScreeningID string `bun:"screening_id,pk"`
	QuestionID  string `bun:"question_id,pk"`
	Position    int    `bun:"position,notnull"`
	Score       int    `bun:"score,notnull"`
	Condition   string `bun:"condition,nullzero"`
}

type questionModel struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID        string `bun:"id,pk"`
	Condition string `bun:"condition,notnull"`
	Text      string `bun:"text,notnull"`
	Ordinal   int    `bun:"ordinal,notnull"`
	Category  string `bun:"category,nullzero"`
}

type therapistModel struct {
	bun.BaseModel `bun:"table:therapists,alias:t"`

	ID              string   `bun:"id,pk"`
	Name            string   `bun:"name,notnull"`
	Address         string   `bun:"address,nullzero"`
	City            string   `bun:"city,nullzero"`
	Region          string   `bun:"region,nullzero"`
	Phone           string   `bun:"phone,nullzero"`
	Email           string   `bun:"email,nullzero"`
	Website         string   `bun:"website,nullzero"`
	Specializations []string `bun:"specializations,array"`
	Services        []string `bun:"services,array"`
	Lat             *float64 `bun:"lat"`
	Lng             *float64 `bun:"lng"`
}

func newScreeningModel(record domain.ScreeningRecord) *screeningModel {
	m := &screeningModel{ID: record.ID, ChildID: record.ChildID, CreatedAt: record.CreatedAt}
	for _, s := range record.Scores {
		m.Scores = append(m.Scores, &scoreModel{
			ScreeningID: record.ID,
			Condition:   string(s.Condition),
			Total:       s.Total,
			MaxPossible: s.MaxPossible,
		})
	}
	for i, a := range record.Answers {
		m.Answers = append(m.Answers, &answerModel{
			ScreeningID: record.ID,
			QuestionID:  a.QuestionID,
			Position:    i,
			Score:       a.Score,
			Condition:   string(a.Condition),
		})
	}
	return m
}

func (m *screeningModel) record() domain.ScreeningRecord {
	record := domain.ScreeningRecord{
		ID:        m.ID,
		ChildID:   m.ChildID,
		CreatedAt: m.CreatedAt,
		Scores:    make([]domain.ConditionScore, 0, len(m.Scores)),
		Answers:   make([]domain.Answer, 0, len(m.Answers)),
	}
	for _, s := range m.Scores {
		record.Scores = append(record.Scores, domain.ConditionScore{
			Condition:   domain.ParseCondition(s.Condition),
			Total:       s.Total,
			MaxPossible: s.MaxPossible,
		})
	}
	domain.SortScores(record.Scores)
	for _, a := range m.Answers {
		record.Answers = append(record.Answers, domain.Answer{
			QuestionID: a.QuestionID,
			Score:      a.Score,
			Condition:  domain.Condition(a.Condition),
		})
	}
	return record
}

func newTherapistModel(t domain.TherapistResource) *therapistModel {
	m := &therapistModel{
		ID:       t.ID,
		Name:     t.Name,
		Address:  t.Address,
		City:     t.City,
		Region:   t.Region,
		Phone:    t.Phone,
		Email:    t.Email,
		Website:  t.Website,
		Services: append([]string{}, t.Services...),
	}
	m.Specializations = make([]string, 0, len(t.Specializations))
	for _, c := range t.Specializations {
		m.Specializations = append(m.Specializations, string(c))
	}
	if t.Coordinates != nil {
		lat, lng := t.Coordinates.Lat, t.Coordinates.Lng
		m.Lat, m.Lng = &lat, &lng
	}
	return m
}
