package http

import (
	"net/http"
	"strconv"
	"strings"

	"screening-service/internal/app"
	"screening-service/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Handler serves the REST API.
type Handler struct {
	service  *app.ScreeningService
	validate *validator.Validate
	log      *zap.Logger
}

func NewHandler(service *app.ScreeningService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, validate: validator.New(), log: log}
}

type answerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Score      *int   `json:"score" validate:"required"`
	Condition  string `json:"condition"`
}

type locationRequest struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

type submitRequest struct {
	ChildID    string           `json:"childId" validate:"required,max=128"`
	Conditions []string         `json:"conditions" validate:"dive,required"`
	Answers    []answerRequest  `json:"answers" validate:"required,min=1,dive"`
	Region     string           `json:"region" validate:"max=128"`
	Location   *locationRequest `json:"location"`
}

func (r submitRequest) submission() app.Submission {
	sub := app.Submission{
		ChildID:    strings.TrimSpace(r.ChildID),
		Conditions: parseConditions(r.Conditions),
		Answers:    make([]domain.Answer, 0, len(r.Answers)),
		Region:     r.Region,
	}
	for _, a := range r.Answers {
		answer := domain.Answer{QuestionID: a.QuestionID, Score: *a.Score}
		if a.Condition != "" {
			answer.Condition = domain.ParseCondition(a.Condition)
		}
		sub.Answers = append(sub.Answers, answer)
	}
	if r.Location != nil {
		sub.Location = &domain.Coordinates{Lat: r.Location.Lat, Lng: r.Location.Lng}
	}
	return sub
}

type questionsResponse struct {
	Questions []domain.Question `json:"questions"`
}

type therapistsResponse struct {
	Therapists []domain.TherapistResource `json:"therapists"`
}

type historyResponse struct {
	ChildID    string                   `json:"childId"`
	Screenings []domain.ScreeningResult `json:"screenings"`
}

func (h *Handler) SubmitScreening(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.service.Submit(r.Context(), req.submission())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) GetScreening(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) ChildHistory(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	results, err := h.service.History(r.Context(), childID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, historyResponse{ChildID: childID, Screenings: results})
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Questions(r.Context(), parseConditions(r.URL.Query()["condition"])...)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, questionsResponse{Questions: questions})
}

func (h *Handler) ListTherapists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.TherapistFilter{
		Conditions: parseConditions(q["condition"]),
		Region:     q.Get("region"),
		Query:      q.Get("q"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			h.writeError(w, r, badRequest{msg: "limit must be a positive integer"})
			return
		}
		filter.Limit = limit
	}
	therapists, err := h.service.Therapists(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, therapistsResponse{Therapists: therapists})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest{msg: "invalid request body: " + err.Error()}
	}
	if err := h.validate.Struct(dst); err != nil {
		return badRequest{msg: err.Error()}
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Warn("write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	h.writeJSON(w, status, errorResponse{Error: body})
}

// parseConditions accepts repeated and comma separated values.
func parseConditions(values []string) []domain.Condition {
	var out []domain.Condition
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, domain.ParseCondition(part))
			}
		}
	}
	return out
}
