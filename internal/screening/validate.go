package screening

import "screening-service/internal/domain"

// Validate checks that every catalog question has exactly one answer. Duplicates are
// reported before missing questions. Answers to questions outside the catalog are left
// for Score to reject.
func Validate(answers []domain.Answer, catalog domain.Catalog) error {
	seen := make(map[string]int, len(answers))
	var dups []string
	for _, a := range answers {
		seen[a.QuestionID]++
		if seen[a.QuestionID] == 2 {
			dups = append(dups, a.QuestionID)
		}
	}
	if len(dups) > 0 {
		return &domain.DuplicateAnswerError{QuestionIDs: dups}
	}

	var missing []string
	for _, q := range catalog.Questions() {
		if seen[q.ID] == 0 {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		return &domain.MissingQuestionsError{QuestionIDs: missing}
	}
	return nil
}

// Progress summarises how far a questionnaire has been completed.
type Progress struct {
	Answered          int      `json:"answered"`
	Total             int      `json:"total"`
	CompletionPercent int      `json:"completionPercent"`
	Missing           []string `json:"missing"`
}

// Measure reports progress of answers against the catalog. Unknown ids do not count.
func Measure(answers []domain.Answer, catalog domain.Catalog) Progress {
	answered := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		if _, ok := catalog.Lookup(a.QuestionID); ok {
			answered[a.QuestionID] = struct{}{}
		}
	}
	p := Progress{Answered: len(answered), Total: catalog.Len(), Missing: []string{}}
	for _, q := range catalog.Questions() {
		if _, ok := answered[q.ID]; !ok {
			p.Missing = append(p.Missing, q.ID)
		}
	}
	if p.Total > 0 {
		p.CompletionPercent = (p.Answered*100 + p.Total/2) / p.Total
	}
	return p
}
