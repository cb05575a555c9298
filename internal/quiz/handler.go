package quiz

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"assessment-system/internal/api"
	"assessment-system/internal/auth"
	"assessment-system/internal/models"
)

// UserLoader resolves an authenticated user id to its account record.
type UserLoader interface {
	CurrentUser(userID uuid.UUID) (*models.User, error)
}

type Handler struct {
	service *Service
	users   UserLoader
}

func NewHandler(service *Service, users UserLoader) *Handler {
	return &Handler{service: service, users: users}
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) *models.User {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return nil
	}
	user, err := h.users.CurrentUser(userID)
	if err != nil {
		api.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return nil
	}
	return user
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := mux.Vars(r)["quiz_id"]

	resp, err := h.service.GetQuiz(r.Context(), quizID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	quizID := mux.Vars(r)["quiz_id"]

	questions, err := h.service.GetQuestions(r.Context(), quizID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, questions)
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	quizID := mux.Vars(r)["quiz_id"]

	resp, err := h.service.Start(r.Context(), user, quizID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	vars := mux.Vars(r)
	quizID := vars["quiz_id"]

	attemptID, err := uuid.Parse(vars["attempt_id"])
	if err != nil {
		api.Error(w, http.StatusNotFound, "Quiz attempt not found")
		return
	}

	var req models.SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Answers == nil {
		req.Answers = map[string]string{}
	}

	resp, err := h.service.Submit(r.Context(), user, quizID, attemptID, req.Answers)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	user := h.currentUser(w, r)
	if user == nil {
		return
	}
	vars := mux.Vars(r)
	quizID := vars["quiz_id"]

	attemptID, err := uuid.Parse(vars["attempt_id"])
	if err != nil {
		api.Error(w, http.StatusNotFound, "Quiz attempt not found")
		return
	}

	resp, err := h.service.GetAttempt(r.Context(), user, quizID, attemptID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrQuizNotFound):
		api.Error(w, http.StatusNotFound, "Quiz not found")
	case errors.Is(err, ErrAttemptNotFound):
		api.Error(w, http.StatusNotFound, "Quiz attempt not found")
	case errors.Is(err, ErrMaxAttempts):
		api.Error(w, http.StatusConflict, "Maximum attempts reached for this quiz")
	case errors.Is(err, ErrNotInProgress):
		api.Error(w, http.StatusConflict, "Quiz attempt is not in progress")
	default:
		api.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
