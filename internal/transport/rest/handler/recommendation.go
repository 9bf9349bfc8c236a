package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"hellosleep/internal/model"
	"hellosleep/internal/service"
)

// RecommendationHandler exposes the recommendation pipeline
type RecommendationHandler struct {
	recommendSvc  *service.RecommendationService
	questionnaire *service.QuestionnaireService
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommendSvc *service.RecommendationService, q *service.QuestionnaireService) *RecommendationHandler {
	return &RecommendationHandler{recommendSvc: recommendSvc, questionnaire: q}
}

// Recommend handles POST /v1/recommendations
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req model.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Context.TotalQuestions == 0 {
		req.Context = h.questionnaire.Context(req.Answers)
	}

	result, err := h.recommendSvc.Recommend(r.Context(), &req)
	if errors.Is(err, service.ErrInvalidAnswers) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
