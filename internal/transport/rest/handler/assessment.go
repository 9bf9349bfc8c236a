package handler

import (
	"encoding/json"
	"net/http"

	"hellosleep/internal/model"
	"hellosleep/internal/service"
)

// AssessmentHandler serves the questionnaire and rule evaluation endpoints
type AssessmentHandler struct {
	questionnaire *service.QuestionnaireService
	tags          *service.TagService
	booklets      *service.BookletService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(q *service.QuestionnaireService, tags *service.TagService, booklets *service.BookletService) *AssessmentHandler {
	return &AssessmentHandler{questionnaire: q, tags: tags, booklets: booklets}
}

// AnswersRequest is the body of the answer-driven endpoints
type AnswersRequest struct {
	Answers model.AnswerSet `json:"answers"`
}

// VisibleResponse lists what the client should render next
type VisibleResponse struct {
	Questions       []model.Question `json:"questions"`
	Progress        float64          `json:"progress"`
	MissingRequired []string         `json:"missingRequired"`
}

// EvaluateResponse is the deterministic assessment result
type EvaluateResponse struct {
	CalculatedTags  []string              `json:"calculatedTags"`
	TagDetails      []model.TagActivation `json:"tagDetails"`
	Booklets        []model.Booklet       `json:"booklets"`
	Progress        float64               `json:"progress"`
	MissingRequired []string              `json:"missingRequired"`
}

// Questions handles GET /v1/questions
func (h *AssessmentHandler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": h.questionnaire.Questions()})
}

// Visible handles POST /v1/questions/visible
func (h *AssessmentHandler) Visible(w http.ResponseWriter, r *http.Request) {
	var req AnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, VisibleResponse{
		Questions:       orEmpty(h.questionnaire.VisibleQuestions(req.Answers)),
		Progress:        h.questionnaire.Progress(req.Answers),
		MissingRequired: orEmpty(h.questionnaire.MissingRequired(req.Answers)),
	})
}

// Evaluate handles POST /v1/assessments/evaluate
func (h *AssessmentHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req AnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Answers == nil {
		writeError(w, http.StatusBadRequest, "answers are required")
		return
	}

	details := h.tags.EvaluateDetailed(req.Answers)
	calculated := []string{}
	for _, d := range details {
		if d.Active {
			calculated = append(calculated, d.Tag)
		}
	}

	writeJSON(w, http.StatusOK, EvaluateResponse{
		CalculatedTags:  calculated,
		TagDetails:      details,
		Booklets:        orEmpty(h.booklets.Match(calculated)),
		Progress:        h.questionnaire.Progress(req.Answers),
		MissingRequired: orEmpty(h.questionnaire.MissingRequired(req.Answers)),
	})
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
