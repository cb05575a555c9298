package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"assessment-system/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying handle for request-scoped transactions.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) SaveUser(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *Repository) CreateVerificationCode(code *models.VerificationCode) error {
	return r.db.Create(code).Error
}

// FindActiveCode looks up a redeemable code: matching value and purpose,
// unused, not soft-deleted, unexpired. Codes are narrow-scoped per purpose;
// if several match, the most recently issued wins.
func (r *Repository) FindActiveCode(code, codeType string, now time.Time) (*models.VerificationCode, error) {
	var vc models.VerificationCode
	err := r.db.
		Where("code = ? AND code_type = ? AND used_at IS NULL AND expires_at > ?", code, codeType, now).
		Order("created_at DESC").
		First(&vc).Error
	if err != nil {
		return nil, err
	}
	return &vc, nil
}

func (r *Repository) MarkCodeUsed(vc *models.VerificationCode, now time.Time) error {
	vc.UsedAt = &now
	return r.db.Save(vc).Error
}

func (r *Repository) CreateRefreshToken(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

// FindActiveRefreshToken returns the unrevoked, unexpired record matching the
// token hash.
func (r *Repository) FindActiveRefreshToken(tokenHash string, now time.Time) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.db.
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", tokenHash, now).
		First(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *Repository) RevokeRefreshToken(rt *models.RefreshToken, now time.Time) error {
	rt.RevokedAt = &now
	return r.db.Save(rt).Error
}

// RevokeAllRefreshTokens invalidates every active session of a user, used on
// password reset.
func (r *Repository) RevokeAllRefreshTokens(userID uuid.UUID, now time.Time) error {
	return r.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}
