// Package screening scores questionnaire answers, classifies them into severity tiers and
// matches noteworthy results to therapist resources. Everything here is pure and safe for
// concurrent use.
package screening

import (
	"sort"

	"screening-service/internal/domain"
)

// Score sums answers per condition. Every condition present in the catalog gets an entry,
// including those with no answers. Answers are checked in order; the first failure wins.
func Score(answers []domain.Answer, catalog domain.Catalog) (map[domain.Condition]domain.ConditionScore, error) {
	scores := make(map[domain.Condition]domain.ConditionScore)
	for _, c := range catalog.Conditions() {
		scores[c] = domain.ConditionScore{
			Condition:   c,
			MaxPossible: domain.MaxAnswerScore * catalog.Count(c),
		}
	}

	for _, a := range answers {
		q, err := CheckAnswer(a, catalog)
		if err != nil {
			return nil, err
		}
		cs := scores[q.Condition]
		cs.Total += a.Score
		scores[q.Condition] = cs
	}
	return scores, nil
}

// OrderedScores flattens a score map into condition order.
func OrderedScores(scores map[domain.Condition]domain.ConditionScore) []domain.ConditionScore {
	out := make([]domain.ConditionScore, 0, len(scores))
	for _, cs := range scores {
		out = append(out, cs)
	}
	domain.SortScores(out)
	return out
}

// Breakdown groups answer scores by question category within each condition.
// Questions without a category are left out.
func Breakdown(answers []domain.Answer, catalog domain.Catalog) (map[domain.Condition][]domain.CategoryScore, error) {
	type key struct {
		condition domain.Condition
		category  string
	}
	acc := make(map[key]*domain.CategoryScore)
	for _, a := range answers {
		q, err := CheckAnswer(a, catalog)
		if err != nil {
			return nil, err
		}
		if q.Category == "" {
			continue
		}
		k := key{q.Condition, q.Category}
		cs, ok := acc[k]
		if !ok {
			cs = &domain.CategoryScore{Category: q.Category}
			acc[k] = cs
		}
		cs.Total += a.Score
		cs.Count++
	}

	out := make(map[domain.Condition][]domain.CategoryScore)
	for k, cs := range acc {
		cs.Average = float64(cs.Total) / float64(cs.Count)
		out[k.condition] = append(out[k.condition], *cs)
	}
	for c := range out {
		sort.Slice(out[c], func(i, j int) bool { return out[c][i].Category < out[c][j].Category })
	}
	return out, nil
}

// CheckAnswer resolves an answer against the catalog, enforcing the condition tag and score range.
func CheckAnswer(a domain.Answer, catalog domain.Catalog) (domain.Question, error) {
	q, ok := catalog.Lookup(a.QuestionID)
	if !ok {
		return domain.Question{}, &domain.UnknownQuestionError{QuestionID: a.QuestionID, Condition: a.Condition}
	}
	if a.Condition != "" && a.Condition != q.Condition {
		return domain.Question{}, &domain.UnknownQuestionError{QuestionID: a.QuestionID, Condition: a.Condition, Expected: q.Condition}
	}
	if a.Score < 0 || a.Score > domain.MaxAnswerScore {
		return domain.Question{}, &domain.InvalidAnswerScoreError{QuestionID: a.QuestionID, Score: a.Score}
	}
	return q, nil
}
