package http

import (
	"errors"
	"net/http"

	"screening-service/internal/domain"
)

type apiError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	QuestionIDs []string `json:"questionIds,omitempty"`
	Condition   string   `json:"condition,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

// badRequest marks malformed input that never reached the service.
type badRequest struct {
	msg string
}

func (e badRequest) Error() string { return e.msg }

// classify maps service errors to a status and a client-facing body.
func classify(err error) (int, apiError) {
	var (
		invalidScore *domain.InvalidAnswerScoreError
		unknownQ     *domain.UnknownQuestionError
		unknownC     *domain.UnknownConditionError
		missing      *domain.MissingQuestionsError
		duplicate    *domain.DuplicateAnswerError
		bad          badRequest
	)
	switch {
	case errors.As(err, &invalidScore):
		return http.StatusUnprocessableEntity, apiError{Code: "invalid_answer_score", Message: err.Error(), QuestionIDs: []string{invalidScore.QuestionID}}
	case errors.As(err, &unknownQ):
		return http.StatusUnprocessableEntity, apiError{Code: "unknown_question", Message: err.Error(), QuestionIDs: []string{unknownQ.QuestionID}}
	case errors.As(err, &unknownC):
		return http.StatusUnprocessableEntity, apiError{Code: "unknown_condition", Message: err.Error(), Condition: string(unknownC.Condition)}
	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity, apiError{Code: "missing_questions", Message: err.Error(), QuestionIDs: missing.QuestionIDs}
	case errors.As(err, &duplicate):
		return http.StatusUnprocessableEntity, apiError{Code: "duplicate_answer", Message: err.Error(), QuestionIDs: duplicate.QuestionIDs}
	case errors.Is(err, domain.ErrScreeningNotFound):
		return http.StatusNotFound, apiError{Code: "not_found", Message: err.Error()}
	case errors.As(err, &bad):
		return http.StatusBadRequest, apiError{Code: "bad_request", Message: bad.msg}
	default:
		return http.StatusInternalServerError, apiError{Code: "internal", Message: "internal server error"}
	}
}
