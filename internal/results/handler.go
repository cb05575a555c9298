package results

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"assessment-system/internal/api"
	"assessment-system/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Questions returns the full question bank.
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Questions(r.Context())
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "Failed to load questions")
		return
	}
	api.JSON(w, http.StatusOK, questions)
}

func (h *Handler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Answers == nil {
		req.Answers = map[string]string{}
	}

	doc, err := h.service.Submit(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, doc)
}

func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Get(r.Context(), mux.Vars(r)["result_id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, doc)
}

// Recommendations generates advice synchronously and returns raw markdown.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	text, err := h.service.Recommendations(r.Context(), req)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "Failed to generate recommendations")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

func (h *Handler) QuickTest(w http.ResponseWriter, r *http.Request) {
	var req models.QuickTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.QuickTest(r.Context(), req.TestType)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) QuickTestResult(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.QuickTestResult(r.Context(), mux.Vars(r)["test_id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, doc)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrQuickTestDisabled):
		api.Error(w, http.StatusNotFound, "Quick test functionality is disabled")
	case errors.Is(err, ErrNoQuestions):
		api.Error(w, http.StatusNotFound, "Questions not found")
	case errors.Is(err, ErrResultNotFound):
		api.Error(w, http.StatusNotFound, "Result not found")
	default:
		api.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
