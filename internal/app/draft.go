package app

import (
	"sync"

	"screening-service/internal/domain"
	"screening-service/internal/screening"
)

// Draft is an in-progress questionnaire. Re-answering a question replaces the earlier
// answer; the submission built from a draft holds exactly one answer per question.
type Draft struct {
	childID    string
	conditions []domain.Condition
	catalog    domain.Catalog

	mu      sync.Mutex
	answers map[string]domain.Answer
}

func newDraft(childID string, conditions []domain.Condition, catalog domain.Catalog) *Draft {
	return &Draft{
		childID:    childID,
		conditions: append([]domain.Condition(nil), conditions...),
		catalog:    catalog,
		answers:    make(map[string]domain.Answer),
	}
}

// Questions returns the administered questions in catalog order.
func (d *Draft) Questions() []domain.Question {
	return d.catalog.Questions()
}

// Record stores an answer after checking it against the administered catalog.
func (d *Draft) Record(a domain.Answer) (screening.Progress, error) {
	if _, err := screening.CheckAnswer(a, d.catalog); err != nil {
		return screening.Progress{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.answers[a.QuestionID] = a
	return screening.Measure(d.answersLocked(), d.catalog), nil
}

func (d *Draft) Progress() screening.Progress {
	d.mu.Lock()
	defer d.mu.Unlock()
	return screening.Measure(d.answersLocked(), d.catalog)
}

// Submission snapshots the draft.
func (d *Draft) Submission(region string, location *domain.Coordinates) Submission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Submission{
		ChildID:    d.childID,
		Conditions: append([]domain.Condition(nil), d.conditions...),
		Answers:    d.answersLocked(),
		Region:     region,
		Location:   location,
	}
}

func (d *Draft) answersLocked() []domain.Answer {
	out := make([]domain.Answer, 0, len(d.answers))
	for _, q := range d.catalog.Questions() {
		if a, ok := d.answers[q.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}
