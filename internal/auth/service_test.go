package auth

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

type noopEmail struct{}

func (noopEmail) SendVerificationCode(to, name, code string) error { return nil }
func (noopEmail) SendPasswordReset(to, name, code string) error    { return nil }
func (noopEmail) SendWelcome(to, name string) error                { return nil }

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, *TokenIssuer) {
	t.Helper()
	db, mock := newMockDB(t)
	issuer := NewTokenIssuer("test-secret", "HS256", time.Minute, time.Hour)
	svc := NewService(NewRepository(db), issuer, noopEmail{}, zap.NewNop(), 15*time.Minute, false)
	return svc, mock, issuer
}

func userRow(id uuid.UUID, email, passwordHash string, verified bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "email_verified", "name", "role"}).
		AddRow(id, email, passwordHash, verified, "Alex", "student")
}

func TestService_Register_CreatesUserAndCode(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "verification_codes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Register("alex@example.com", "correct horse battery", "Alex"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRow(uuid.New(), "alex@example.com", "", true))
	mock.ExpectRollback()

	err := svc.Register("alex@example.com", "correct horse battery", "Alex")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The code lookup must filter on used_at and expiry; that clause is what
// makes redemption single-use.
const activeCodeFilter = `SELECT \* FROM "verification_codes" WHERE \(?code = \$1 AND code_type = \$2 AND used_at IS NULL AND expires_at > \$3`

func TestService_VerifyEmail_MarksUserVerified(t *testing.T) {
	svc, mock, _ := newTestService(t)

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(activeCodeFilter).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "code", "code_type", "expires_at"}).
			AddRow(uuid.New(), userID, "123456", "email_verification", time.Now().Add(10*time.Minute)))
	mock.ExpectExec(`UPDATE "verification_codes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRow(userID, "alex@example.com", "", false))
	mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.VerifyEmail("123456"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_VerifyEmail_UsedCodeRejected(t *testing.T) {
	svc, mock, _ := newTestService(t)

	// A redeemed code has used_at set, so the filtered lookup finds nothing
	// and the second redemption fails.
	mock.ExpectBegin()
	mock.ExpectQuery(activeCodeFilter).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := svc.VerifyEmail("123456")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Login_WrongPassword(t *testing.T) {
	svc, mock, _ := newTestService(t)

	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRow(uuid.New(), "alex@example.com", hash, true))

	_, err = svc.Login("alex@example.com", "wrong password!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Login("ghost@example.com", "whatever123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnverifiedEmailGate(t *testing.T) {
	db, mock := newMockDB(t)
	issuer := NewTokenIssuer("test-secret", "HS256", time.Minute, time.Hour)
	svc := NewService(NewRepository(db), issuer, noopEmail{}, zap.NewNop(), 15*time.Minute, true)

	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRow(uuid.New(), "alex@example.com", hash, false))

	_, err = svc.Login("alex@example.com", "correct horse battery")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestService_Refresh_GarbageTokenRejected(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Refresh("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Refresh_RevokedTokenRejected(t *testing.T) {
	svc, mock, issuer := newTestService(t)

	token, err := issuer.IssueRefresh(uuid.New().String())
	require.NoError(t, err)

	// Valid signature but no active stored record: a rotated-away or revoked
	// token must not mint a new pair.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "refresh_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err = svc.Refresh(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Logout_RevokesStoredToken(t *testing.T) {
	svc, mock, issuer := newTestService(t)

	token, err := issuer.IssueRefresh(uuid.New().String())
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "refresh_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at"}).
			AddRow(uuid.New(), uuid.New(), HashRefreshToken(token), time.Now().Add(time.Hour)))
	mock.ExpectExec(`UPDATE "refresh_tokens"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Logout(token))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Logout_UnknownTokenIsIdempotent(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery(`SELECT \* FROM "refresh_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	assert.NoError(t, svc.Logout("never-issued"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ResetPassword_RevokesAllSessions(t *testing.T) {
	svc, mock, _ := newTestService(t)

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "verification_codes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "code", "code_type", "expires_at"}).
			AddRow(uuid.New(), userID, "123456", "password_reset", time.Now().Add(10*time.Minute)))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRow(userID, "alex@example.com", "", false))
	mock.ExpectExec(`UPDATE "verification_codes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "refresh_tokens"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := svc.ResetPassword("alex@example.com", "123456", "a brand new password")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ResetPassword_WrongEmailForCode(t *testing.T) {
	svc, mock, _ := newTestService(t)

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "verification_codes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "code", "code_type", "expires_at"}).
			AddRow(uuid.New(), userID, "123456", "password_reset", time.Now().Add(10*time.Minute)))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(userRow(userID, "alex@example.com", "", false))
	mock.ExpectRollback()

	err := svc.ResetPassword("someone-else@example.com", "123456", "a brand new password")
	assert.ErrorIs(t, err, ErrInvalidCode)
}
