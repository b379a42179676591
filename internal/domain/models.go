package domain

import (
	"sort"
	"strings"
	"time"
)

// Condition identifies a screening domain.
type Condition string

const (
	ConditionASD      Condition = "ASD"
	ConditionADHD     Condition = "ADHD"
	ConditionDyslexia Condition = "Dyslexia"
)

// MaxAnswerScore is the top of the Likert scale; every answer lies in [0, MaxAnswerScore].
const MaxAnswerScore = 4

// BuiltinConditions returns the conditions shipped with the default questionnaire, in display order.
func BuiltinConditions() []Condition {
	return []Condition{ConditionASD, ConditionADHD, ConditionDyslexia}
}

// ParseCondition matches a built-in condition case-insensitively. Unknown names are returned
// as-is so catalogs can introduce new conditions.
func ParseCondition(raw string) Condition {
	raw = strings.TrimSpace(raw)
	for _, c := range BuiltinConditions() {
		if strings.EqualFold(string(c), raw) {
			return c
		}
	}
	return Condition(raw)
}

func conditionRank(c Condition) int {
	for i, b := range BuiltinConditions() {
		if b == c {
			return i
		}
	}
	return len(BuiltinConditions())
}

// LessCondition orders built-in conditions first, then the rest alphabetically.
func LessCondition(a, b Condition) bool {
	ra, rb := conditionRank(a), conditionRank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

// Tier is an ordered severity bucket.
type Tier int

const (
	TierLow Tier = iota
	TierMild
	TierModerate
	TierHigh
)

var tierNames = [...]string{"Low", "Mild", "Moderate", "High"}

func (t Tier) String() string {
	if t < TierLow || t > TierHigh {
		return "Unknown"
	}
	return tierNames[t]
}

// ParseTier accepts tier names case-insensitively.
func ParseTier(raw string) (Tier, bool) {
	for i, name := range tierNames {
		if strings.EqualFold(name, strings.TrimSpace(raw)) {
			return Tier(i), true
		}
	}
	return TierLow, false
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	parsed, ok := ParseTier(string(b))
	if !ok {
		return &UnknownTierError{Value: string(b)}
	}
	*t = parsed
	return nil
}

// Question is immutable catalog data.
type Question struct {
	ID        string    `json:"id" yaml:"id"`
	Condition Condition `json:"condition" yaml:"condition"`
	Text      string    `json:"text" yaml:"text"`
	Ordinal   int       `json:"ordinal" yaml:"ordinal"`
	Category  string    `json:"category,omitempty" yaml:"category,omitempty"`
}

// Answer is a caregiver's response to one question. Condition is optional; when set it
// must match the question's condition.
type Answer struct {
	QuestionID string    `json:"questionId" yaml:"questionId"`
	Score      int       `json:"score" yaml:"score"`
	Condition  Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// ConditionScore is the aggregate of one condition's answers.
type ConditionScore struct {
	Condition   Condition `json:"condition"`
	Total       int       `json:"total"`
	MaxPossible int       `json:"maxPossible"`
}

// Interpretation classifies a ConditionScore.
type Interpretation struct {
	Condition         Condition `json:"condition"`
	Total             int       `json:"total"`
	MaxPossible       int       `json:"maxPossible"`
	Percentage        float64   `json:"percentage"`
	DisplayPercentage int       `json:"displayPercentage"`
	Tier              Tier      `json:"tier"`
	Severity          string    `json:"severity"`
	Message           string    `json:"message"`
	Recommendation    string    `json:"recommendation"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// TherapistResource is an entry of the externally owned therapist directory.
type TherapistResource struct {
	ID              string       `json:"id" yaml:"id"`
	Name            string       `json:"name" yaml:"name"`
	Address         string       `json:"address" yaml:"address"`
	City            string       `json:"city" yaml:"city"`
	Region          string       `json:"region" yaml:"region"`
	Phone           string       `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email           string       `json:"email,omitempty" yaml:"email,omitempty"`
	Website         string       `json:"website,omitempty" yaml:"website,omitempty"`
	Specializations []Condition  `json:"specializations" yaml:"specializations"`
	Services        []string     `json:"services,omitempty" yaml:"services,omitempty"`
	Coordinates     *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
}

// Specializes reports whether the resource treats any of the given conditions.
func (t TherapistResource) Specializes(conditions map[Condition]struct{}) bool {
	for _, c := range t.Specializations {
		if _, ok := conditions[c]; ok {
			return true
		}
	}
	return false
}

// CategoryScore aggregates the answers of one question category.
type CategoryScore struct {
	Category string  `json:"category"`
	Total    int     `json:"total"`
	Count    int     `json:"count"`
	Average  float64 `json:"average"`
}

// ScreeningResult is the immutable output of one submission.
type ScreeningResult struct {
	ID              string                        `json:"id"`
	ChildID         string                        `json:"childId"`
	CreatedAt       time.Time                     `json:"createdAt"`
	Scores          []ConditionScore              `json:"scores"`
	Interpretations []Interpretation              `json:"interpretations"`
	Recommendations []TherapistResource           `json:"recommendations"`
	Answers         []Answer                      `json:"answers,omitempty"`
	Breakdown       map[Condition][]CategoryScore `json:"breakdown,omitempty"`
}

// ScreeningRecord is the persisted form of a result: totals plus the raw answers.
// Interpretations are recomputed from the totals on read.
type ScreeningRecord struct {
	ID        string           `json:"id"`
	ChildID   string           `json:"childId"`
	CreatedAt time.Time        `json:"createdAt"`
	Scores    []ConditionScore `json:"scores"`
	Answers   []Answer         `json:"answers"`
}

// Record strips the derived parts of a result.
func (r ScreeningResult) Record() ScreeningRecord {
	return ScreeningRecord{
		ID:        r.ID,
		ChildID:   r.ChildID,
		CreatedAt: r.CreatedAt,
		Scores:    append([]ConditionScore(nil), r.Scores...),
		Answers:   append([]Answer(nil), r.Answers...),
	}
}

// SortScores orders scores by condition.
func SortScores(scores []ConditionScore) {
	sort.Slice(scores, func(i, j int) bool {
		return LessCondition(scores[i].Condition, scores[j].Condition)
	})
}

// TherapistFilter narrows a directory listing. Zero values do not filter.
type TherapistFilter struct {
	Conditions []Condition
	Region     string
	Query      string
	Limit      int
}

// Matches applies the condition, region and free-text criteria. Limit is left to the caller.
func (f TherapistFilter) Matches(t TherapistResource) bool {
	if len(f.Conditions) > 0 {
		want := make(map[Condition]struct{}, len(f.Conditions))
		for _, c := range f.Conditions {
			want[c] = struct{}{}
		}
		if !t.Specializes(want) {
			return false
		}
	}
	if region := strings.TrimSpace(f.Region); region != "" {
		if !strings.Contains(strings.ToLower(t.Region), strings.ToLower(region)) {
			return false
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.City), q) ||
			strings.Contains(strings.ToLower(t.Address), q) {
			return true
		}
		for _, s := range t.Services {
			if strings.Contains(strings.ToLower(s), q) {
				return true
			}
		}
		return false
	}
	return true
}
