package domain

import "sort"

// Catalog is the fixed list of screening questions, ordered by condition then ordinal.
type Catalog struct {
	questions []Question
	byID      map[string]int
}

// NewCatalog copies and orders the questions. Later duplicates of an id are dropped.
func NewCatalog(questions []Question) Catalog {
	qs := make([]Question, 0, len(questions))
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if _, ok := seen[q.ID]; ok {
			continue
		}
		seen[q.ID] = struct{}{}
		qs = append(qs, q)
	}
	sort.SliceStable(qs, func(i, j int) bool {
		if qs[i].Condition != qs[j].Condition {
			return LessCondition(qs[i].Condition, qs[j].Condition)
		}
		if qs[i].Ordinal != qs[j].Ordinal {
			return qs[i].Ordinal < qs[j].Ordinal
		}
		return qs[i].ID < qs[j].ID
	})

	byID := make(map[string]int, len(qs))
	for i, q := range qs {
		byID[q.ID] = i
	}
	return Catalog{questions: qs, byID: byID}
}

// Questions returns a copy of the ordered questions.
func (c Catalog) Questions() []Question {
	return append([]Question(nil), c.questions...)
}

func (c Catalog) Len() int {
	return len(c.questions)
}

// Lookup finds a question by id.
func (c Catalog) Lookup(id string) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Conditions lists the conditions that have at least one question, in catalog order.
func (c Catalog) Conditions() []Condition {
	var out []Condition
	for _, q := range c.questions {
		if len(out) == 0 || out[len(out)-1] != q.Condition {
			out = append(out, q.Condition)
		}
	}
	return out
}

// Has reports whether the catalog contains questions for the condition.
func (c Catalog) Has(condition Condition) bool {
	return c.Count(condition) > 0
}

// Count returns the number of questions for a condition.
func (c Catalog) Count(condition Condition) int {
	n := 0
	for _, q := range c.questions {
		if q.Condition == condition {
			n++
		}
	}
	return n
}

// ForCondition returns the questions of one condition.
func (c Catalog) ForCondition(condition Condition) []Question {
	var out []Question
	for _, q := range c.questions {
		if q.Condition == condition {
			out = append(out, q)
		}
	}
	return out
}

// Subset returns the catalog restricted to the given conditions. An empty list selects
// every condition. A condition without questions fails with UnknownConditionError.
func (c Catalog) Subset(conditions ...Condition) (Catalog, error) {
	if len(conditions) == 0 {
		return c, nil
	}
	want := make(map[Condition]struct{}, len(conditions))
	for _, cond := range conditions {
		if !c.Has(cond) {
			return Catalog{}, &UnknownConditionError{Condition: cond}
		}
		want[cond] = struct{}{}
	}
	var qs []Question
	for _, q := range c.questions {
		if _, ok := want[q.Condition]; ok {
			qs = append(qs, q)
		}
	}
	return NewCatalog(qs), nil
}
