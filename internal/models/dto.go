package models

import (
	"time"

	"github.com/google/uuid"
)

// Auth request/response shapes.

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Name            string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Code string `json:"code"`
}

type ResendVerificationCodeRequest struct {
	Email string `json:"email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email              string `json:"email"`
	Code               string `json:"code"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Quiz request/response shapes.

type QuizResponse struct {
	QuizContent
	QuestionCount int `json:"question_count"`
}

type StartQuizResponse struct {
	AttemptID string       `json:"attempt_id"`
	Quiz      QuizResponse `json:"quiz"`
	Questions []Question   `json:"questions"`
}

type SubmitQuizRequest struct {
	Answers map[string]string `json:"answers"`
}

type QuizAttemptResponse struct {
	AttemptID        string           `json:"attempt_id"`
	QuizID           string           `json:"quiz_id"`
	Status           string           `json:"status"`
	Score            *int             `json:"score"`
	Level            *string          `json:"level"`
	Passed           *bool            `json:"passed"`
	StartedAt        string           `json:"started_at"`
	CompletedAt      *string          `json:"completed_at"`
	TimeSpentSeconds *int             `json:"time_spent_seconds"`
	CategoryScores   map[string]int   `json:"category_scores,omitempty"`
	Strengths        []CategoryBrief  `json:"strengths,omitempty"`
	Weaknesses       []CategoryBrief  `json:"weaknesses,omitempty"`
	Recommendations  *string          `json:"recommendations"`
	QuestionDetails  []QuestionDetail `json:"question_details,omitempty"`
}

// Standalone results and recommendations (service-to-service surface).

type SubmitResultRequest struct {
	User    ResultUser        `json:"user"`
	Answers map[string]string `json:"answers"`
}

type RecommendationRequest struct {
	User            ResultUser       `json:"user"`
	OverallScore    int              `json:"overallScore"`
	Level           Level            `json:"level"`
	Strengths       []CategoryBrief  `json:"strengths"`
	Weaknesses      []CategoryBrief  `json:"weaknesses"`
	QuestionDetails []QuestionDetail `json:"question_details,omitempty"`
}

type QuickTestRequest struct {
	TestType string `json:"test_type"`
}

type QuickTestResponse struct {
	TestID       string `json:"test_id"`
	Message      string `json:"message"`
	AnswersCount int    `json:"answers_count"`
}
