package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidAnswerScore is returned when an answer lies outside [0, MaxAnswerScore].
	ErrInvalidAnswerScore = errors.New("invalid answer score")
	// ErrUnknownQuestion indicates an answer references a question outside the administered catalog.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrUnknownCondition is returned when no thresholds or questions exist for a condition.
	ErrUnknownCondition = errors.New("unknown condition")
	// ErrMissingQuestions indicates the questionnaire was submitted incomplete.
	ErrMissingQuestions = errors.New("missing answers")
	// ErrDuplicateAnswer indicates the same question was answered more than once.
	ErrDuplicateAnswer = errors.New("duplicate answer")
	// ErrScreeningNotFound indicates no stored screening matches the id.
	ErrScreeningNotFound = errors.New("screening not found")
	// ErrInvalidThresholds is returned by interpreter construction for decreasing or negative thresholds.
	ErrInvalidThresholds = errors.New("invalid thresholds")
	// ErrInvalidNoteworthyTier rejects matcher configurations that would escalate Low or Mild results.
	ErrInvalidNoteworthyTier = errors.New("noteworthy tier must be Moderate or High")
	// ErrUnknownTier is returned when parsing an unrecognised tier name.
	ErrUnknownTier = errors.New("unknown tier")
	// ErrScoreOutOfRange is returned when a condition total cannot be interpreted against its maximum.
	ErrScoreOutOfRange = errors.New("condition score out of range")
)

type InvalidAnswerScoreError struct {
	QuestionID string
	Score      int
}

func (e *InvalidAnswerScoreError) Error() string {
	return fmt.Sprintf("question %s: score %d outside [0,%d]", e.QuestionID, e.Score, MaxAnswerScore)
}

func (e *InvalidAnswerScoreError) Unwrap() error { return ErrInvalidAnswerScore }

// UnknownQuestionError carries the offending id. Expected is set when the question exists
// but the answer was tagged with another condition.
type UnknownQuestionError struct {
	QuestionID string
	Condition  Condition
	Expected   Condition
}

func (e *UnknownQuestionError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("question %s belongs to %s, answered under %s", e.QuestionID, e.Expected, e.Condition)
	}
	return fmt.Sprintf("unknown question %s", e.QuestionID)
}

func (e *UnknownQuestionError) Unwrap() error { return ErrUnknownQuestion }

type UnknownConditionError struct {
	Condition Condition
}

func (e *UnknownConditionError) Error() string {
	return fmt.Sprintf("unknown condition %q", string(e.Condition))
}

func (e *UnknownConditionError) Unwrap() error { return ErrUnknownCondition }

// MissingQuestionsError lists unanswered question ids in catalog order.
type MissingQuestionsError struct {
	QuestionIDs []string
}

func (e *MissingQuestionsError) Error() string {
	return fmt.Sprintf("%d unanswered questions: %s", len(e.QuestionIDs), strings.Join(e.QuestionIDs, ", "))
}

func (e *MissingQuestionsError) Unwrap() error { return ErrMissingQuestions }

type DuplicateAnswerError struct {
	QuestionIDs []string
}

func (e *DuplicateAnswerError) Error() string {
	return fmt.Sprintf("questions answered more than once: %s", strings.Join(e.QuestionIDs, ", "))
}

func (e *DuplicateAnswerError) Unwrap() error { return ErrDuplicateAnswer }

type UnknownTierError struct {
	Value string
}

func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("unknown tier %q", e.Value)
}

func (e *UnknownTierError) Unwrap() error { return ErrUnknownTier }

// ScoreOutOfRangeError is a condition total outside [0, MaxPossible] or a non-positive maximum.
type ScoreOutOfRangeError struct {
	Condition   Condition
	Total       int
	MaxPossible int
}

func (e *ScoreOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: total %d outside [0,%d]", e.Condition, e.Total, e.MaxPossible)
}

func (e *ScoreOutOfRangeError) Unwrap() error { return ErrScoreOutOfRange }
