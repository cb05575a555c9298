package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"assessment-system/internal/models"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email is not verified")
	ErrInvalidCode        = errors.New("invalid or expired verification code")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)

// EmailSender delivers transactional mail. Failures are logged and swallowed;
// the calling operation still succeeds.
type EmailSender interface {
	SendVerificationCode(to, name, code string) error
	SendPasswordReset(to, name, code string) error
	SendWelcome(to, name string) error
}

type Service struct {
	repo            *Repository
	issuer          *TokenIssuer
	email           EmailSender
	log             *zap.Logger
	codeTTL         time.Duration
	requireVerified bool
}

func NewService(repo *Repository, issuer *TokenIssuer, email EmailSender, log *zap.Logger, codeTTL time.Duration, requireVerified bool) *Service {
	return &Service{
		repo:            repo,
		issuer:          issuer,
		email:           email,
		log:             log,
		codeTTL:         codeTTL,
		requireVerified: requireVerified,
	}
}

// Register creates an unverified account and issues an email verification
// code. The verification email is sent after commit, best effort.
func (s *Service) Register(email, password, name string) error {
	var code string
	err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.GetUserByEmail(email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := HashPassword(password)
		if err != nil {
			return err
		}

		user := &models.User{
			Email:         email,
			PasswordHash:  &hash,
			Name:          name,
			Role:          models.RoleStudent,
			EmailVerified: false,
		}
		if err := repo.CreateUser(user); err != nil {
			return err
		}

		code = GenerateVerificationCode()
		return repo.CreateVerificationCode(&models.VerificationCode{
			UserID:    user.ID,
			Code:      code,
			CodeType:  models.CodeTypeEmailVerification,
			ExpiresAt: CodeExpiry(time.Now(), s.codeTTL),
		})
	})
	if err != nil {
		return err
	}

	if err := s.email.SendVerificationCode(email, name, code); err != nil {
		s.log.Error("failed to send verification email", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// VerifyEmail redeems an email verification code and marks the account
// verified. Reusing a code fails because the used-filter excludes it.
func (s *Service) VerifyEmail(code string) error {
	var user *models.User
	err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := time.Now()

		vc, err := repo.FindActiveCode(code, models.CodeTypeEmailVerification, now)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCode
			}
			return err
		}
		if err := repo.MarkCodeUsed(vc, now); err != nil {
			return err
		}

		user, err = repo.GetUserByID(vc.UserID)
		if err != nil {
			return err
		}
		user.EmailVerified = true
		return repo.SaveUser(user)
	})
	if err != nil {
		return err
	}

	if err := s.email.SendWelcome(user.Email, user.Name); err != nil {
		s.log.Error("failed to send welcome email", zap.String("email", user.Email), zap.Error(err))
	}
	return nil
}

// ResendVerificationCode issues a fresh code for an unverified account. It
// never reports whether the account exists.
func (s *Service) ResendVerificationCode(email string) {
	user, err := s.repo.GetUserByEmail(email)
	if err != nil || user.EmailVerified {
		return
	}

	code := GenerateVerificationCode()
	err = s.repo.CreateVerificationCode(&models.VerificationCode{
		UserID:    user.ID,
		Code:      code,
		CodeType:  models.CodeTypeEmailVerification,
		ExpiresAt: CodeExpiry(time.Now(), s.codeTTL),
	})
	if err != nil {
		s.log.Error("failed to create verification code", zap.Error(err))
		return
	}

	if err := s.email.SendVerificationCode(user.Email, user.Name, code); err != nil {
		s.log.Error("failed to send verification email", zap.String("email", user.Email), zap.Error(err))
	}
}

// Login authenticates by email and password and returns an access/refresh
// token pair, persisting the refresh token hash.
func (s *Service) Login(email, password string) (*models.TokenResponse, error) {
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil || !VerifyPassword(password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if s.requireVerified && !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	return s.issueTokenPair(s.repo, user)
}

// Refresh rotates a refresh token: the presented token's stored record must
// be active and matching, it is revoked, and a new pair is issued.
func (s *Service) Refresh(refreshToken string) (*models.TokenResponse, error) {
	claims := s.issuer.Verify(refreshToken, TokenTypeRefresh)
	if claims == nil {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var resp *models.TokenResponse
	err = s.repo.DB().Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := time.Now()

		record, err := repo.FindActiveRefreshToken(HashRefreshToken(refreshToken), now)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		user, err := repo.GetUserByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		if err := repo.RevokeRefreshToken(record, now); err != nil {
			return err
		}

		resp, err = s.issueTokenPair(repo, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Logout revokes the matching stored refresh token. Unknown tokens are
// ignored so logout is idempotent.
func (s *Service) Logout(refreshToken string) error {
	now := time.Now()
	record, err := s.repo.FindActiveRefreshToken(HashRefreshToken(refreshToken), now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.repo.RevokeRefreshToken(record, now)
}

// ForgotPassword issues a password reset code. It never reports whether the
// account exists.
func (s *Service) ForgotPassword(email string) {
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return
	}

	code := GenerateVerificationCode()
	err = s.repo.CreateVerificationCode(&models.VerificationCode{
		UserID:    user.ID,
		Code:      code,
		CodeType:  models.CodeTypePasswordReset,
		ExpiresAt: CodeExpiry(time.Now(), s.codeTTL),
	})
	if err != nil {
		s.log.Error("failed to create password reset code", zap.Error(err))
		return
	}

	if err := s.email.SendPasswordReset(user.Email, user.Name, code); err != nil {
		s.log.Error("failed to send password reset email", zap.String("email", user.Email), zap.Error(err))
	}
}

// ResetPassword redeems a reset code, updates the password and revokes every
// active refresh token for the user.
func (s *Service) ResetPassword(email, code, newPassword string) error {
	return s.repo.DB().Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := time.Now()

		vc, err := repo.FindActiveCode(code, models.CodeTypePasswordReset, now)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCode
			}
			return err
		}

		user, err := repo.GetUserByID(vc.UserID)
		if err != nil || user.Email != email {
			return ErrInvalidCode
		}

		if err := repo.MarkCodeUsed(vc, now); err != nil {
			return err
		}

		hash, err := HashPassword(newPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = &hash
		if err := repo.SaveUser(user); err != nil {
			return err
		}

		return repo.RevokeAllRefreshTokens(user.ID, now)
	})
}

// CurrentUser loads the authenticated user for /auth/me.
func (s *Service) CurrentUser(userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) issueTokenPair(repo *Repository, user *models.User) (*models.TokenResponse, error) {
	access, err := s.issuer.IssueAccess(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.IssueRefresh(user.ID.String())
	if err != nil {
		return nil, err
	}

	err = repo.CreateRefreshToken(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: HashRefreshToken(refresh),
		ExpiresAt: time.Now().Add(s.issuer.RefreshTTL()),
	})
	if err != nil {
		return nil, err
	}

	return &models.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
