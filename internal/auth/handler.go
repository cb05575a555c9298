package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"assessment-system/internal/api"
	"assessment-system/internal/models"
)

var codePattern = regexp.MustCompile(`^\d{6}$`)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && len(email) <= 255
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validEmail(req.Email) {
		api.Error(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(req.Password) < 8 || len(req.Password) > 100 {
		api.Error(w, http.StatusBadRequest, "Password must be between 8 and 100 characters")
		return
	}
	if req.Password != req.PasswordConfirm {
		api.Error(w, http.StatusBadRequest, "Passwords do not match")
		return
	}
	if len(req.Name) < 2 || len(req.Name) > 255 {
		api.Error(w, http.StatusBadRequest, "Name must be between 2 and 255 characters")
		return
	}

	if err := h.service.Register(req.Email, req.Password, req.Name); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			api.Error(w, http.StatusConflict, "User with this email already exists")
			return
		}
		api.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	api.JSON(w, http.StatusCreated, models.MessageResponse{
		Message: "Registration successful. Check your email for the verification code.",
	})
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !codePattern.MatchString(req.Code) {
		api.Error(w, http.StatusBadRequest, "Invalid verification code format")
		return
	}

	if err := h.service.VerifyEmail(req.Code); err != nil {
		if errors.Is(err, ErrInvalidCode) {
			api.Error(w, http.StatusBadRequest, "Invalid or expired verification code")
			return
		}
		api.Error(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	api.JSON(w, http.StatusOK, models.MessageResponse{Message: "Email verified successfully"})
}

func (h *Handler) ResendVerificationCode(w http.ResponseWriter, r *http.Request) {
	var req models.ResendVerificationCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validEmail(req.Email) {
		api.Error(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	h.service.ResendVerificationCode(req.Email)

	// Same message whether or not the account exists or is already verified.
	api.JSON(w, http.StatusOK, models.MessageResponse{
		Message: "If an account with this email exists, a verification code has been sent.",
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tokens, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			api.Error(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, ErrEmailNotVerified):
			api.Error(w, http.StatusForbidden, "Email is not verified. Check your inbox for the verification code.")
		default:
			api.Error(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	api.JSON(w, http.StatusOK, tokens)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tokens, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			api.Error(w, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		api.Error(w, http.StatusInternalServerError, "Token refresh failed")
		return
	}

	api.JSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Logout(req.RefreshToken); err != nil {
		api.Error(w, http.StatusInternalServerError, "Logout failed")
		return
	}

	api.JSON(w, http.StatusOK, models.MessageResponse{Message: "Logged out successfully"})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validEmail(req.Email) {
		api.Error(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	h.service.ForgotPassword(req.Email)

	api.JSON(w, http.StatusOK, models.MessageResponse{
		Message: "If an account with this email exists, a reset code has been sent.",
	})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !codePattern.MatchString(req.Code) {
		api.Error(w, http.StatusBadRequest, "Invalid verification code format")
		return
	}
	if len(req.NewPassword) < 8 || len(req.NewPassword) > 100 {
		api.Error(w, http.StatusBadRequest, "Password must be between 8 and 100 characters")
		return
	}
	if req.NewPassword != req.NewPasswordConfirm {
		api.Error(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	if err := h.service.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		if errors.Is(err, ErrInvalidCode) {
			api.Error(w, http.StatusBadRequest, "Invalid or expired verification code")
			return
		}
		api.Error(w, http.StatusInternalServerError, "Password reset failed")
		return
	}

	api.JSON(w, http.StatusOK, models.MessageResponse{Message: "Password changed successfully"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		api.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	user, err := h.service.CurrentUser(userID)
	if err != nil {
		api.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	api.JSON(w, http.StatusOK, models.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
	})
}
