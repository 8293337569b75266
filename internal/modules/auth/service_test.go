package auth

import (
	"context"
	"testing"
	"time"

	"empanelment/internal/database"
	"empanelment/internal/pkg/jwt"
	"empanelment/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingMailer struct {
	email string
	code  string
	sent  int
}

func (m *recordingMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.email = email
	m.code = code
	m.sent++
	return nil
}

type authFixture struct {
	svc    *Service
	mailer *recordingMailer
	codes  *repository.VerificationCodeRepository
	db     *gorm.DB
}

func setupAuth(t *testing.T, codeTTL, cooldown time.Duration) *authFixture {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	mailer := &recordingMailer{}
	codes := repository.NewVerificationCodeRepository(db)
	svc := NewService(
		repository.NewUserRepository(db),
		codes,
		jwt.New("test-secret", time.Hour),
		mailer,
		"test-pepper",
		codeTTL,
		cooldown,
	)
	return &authFixture{svc: svc, mailer: mailer, codes: codes, db: db}
}

func register(t *testing.T, fx *authFixture) {
	t.Helper()
	_, err := fx.svc.Register(context.Background(), RegisterRequest{
		Email:    "vendor@example.com",
		Password: "correct horse",
		Name:     "Vendor One",
	})
	require.NoError(t, err)
}

func TestRegisterAndDuplicateEmail(t *testing.T) {
	fx := setupAuth(t, 5*time.Minute, 0)

	user, err := fx.svc.Register(context.Background(), RegisterRequest{
		Email:    "Vendor@Example.com ",
		Password: "correct horse",
		Name:     "Vendor One",
	})
	require.NoError(t, err)
	require.Equal(t, "vendor@example.com", user.Email)
	require.NotEqual(t, "correct horse", user.PasswordHash)

	_, err = fx.svc.Register(context.Background(), RegisterRequest{
		Email:    "vendor@example.com",
		Password: "another pass",
		Name:     "Imposter",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	fx := setupAuth(t, 5*time.Minute, 0)
	register(t, fx)

	err := fx.svc.Login(context.Background(), LoginRequest{Email: "vendor@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Zero(t, fx.mailer.sent)
}

func TestLoginUnknownEmail(t *testing.T) {
	fx := setupAuth(t, 5*time.Minute, 0)

	err := fx.svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginVerifyFlow(t *testing.T) {
	fx := setupAuth(t, 5*time.Minute, 0)
	register(t, fx)
	ctx := context.Background()

	require.NoError(t, fx.svc.Login(ctx, LoginRequest{Email: "vendor@example.com", Password: "correct horse"}))
	require.Equal(t, 1, fx.mailer.sent)
	require.Equal(t, "vendor@example.com", fx.mailer.email)
	require.Len(t, fx.mailer.code, 6)

	result, err := fx.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "vendor@example.com", Code: fx.mailer.code})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.Equal(t, "vendor@example.com", result.User.Email)

	// Codes are single-use.
	_, err = fx.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "vendor@example.com", Code: fx.mailer.code})
	require.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerifyWrongCode(t *testing.T) {
	fx := setupAuth(t, 5*time.Minute, 0)
	register(t, fx)
	ctx := context.Background()

	require.NoError(t, fx.svc.Login(ctx, LoginRequest{Email: "vendor@example.com", Password: "correct horse"}))

	wrong := "000000"
	if fx.mailer.code == wrong {
		wrong = "000001"
	}
	_, err := fx.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "vendor@example.com", Code: wrong})
	require.ErrorIs(t, err, ErrCodeInvalid)

	// The right code still works after one failed attempt.
	result, err := fx.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "vendor@example.com", Code: fx.mailer.code})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
}

func TestVerifyAttemptLimit(t *testing.T) {
	fx := setupAuth(t, 5*time.Minute, 0)
	register(t, fx)
	ctx := context.Background()

	require.NoError(t, fx.svc.Login(ctx, LoginRequest{Email: "vendor@example.com", Password: "correct horse"}))

	wrong := "000000"
	if fx.mailer.code == wrong {
		wrong = "000001"
	}
	for i := 0; i < maxVerifyAttempts; i++ {
		_, err := fx.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "vendor@example.com", Code: wrong})
		require.ErrorIs(t, err, ErrCodeInvalid)
	}

	// Even the correct code is refused once the attempt limit is hit.
	_, err := fx.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "vendor@example.com", Code: fx.mailer.code})
	require.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestVerifyExpiredCode(t *testing.T) {
	fx := setupAuth(t, time.Millisecond, 0)
	register(t, fx)
	ctx := context.Background()

	require.NoError(t, fx.svc.Login(ctx, LoginRequest{Email: "vendor@example.com", Password: "correct horse"}))
	time.Sleep(5 * time.Millisecond)

	_, err := fx.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "vendor@example.com", Code: fx.mailer.code})
	require.ErrorIs(t, err, ErrCodeExpired)
}

func TestLoginResendCooldown(t *testing.T) {
	fx := setupAuth(t, 5*time.Minute, time.Minute)
	register(t, fx)
	ctx := context.Background()

	req := LoginRequest{Email: "vendor@example.com", Password: "correct horse"}
	require.NoError(t, fx.svc.Login(ctx, req))
	require.ErrorIs(t, fx.svc.Login(ctx, req), ErrResendCooldown)
	require.Equal(t, 1, fx.mailer.sent)
}

func TestLoginReplacesPreviousChallenge(t *testing.T) {
	fx := setupAuth(t, 5*time.Minute, 0)
	register(t, fx)
	ctx := context.Background()

	req := LoginRequest{Email: "vendor@example.com", Password: "correct horse"}
	require.NoError(t, fx.svc.Login(ctx, req))
	first := fx.mailer.code

	require.NoError(t, fx.svc.Login(ctx, req))
	require.Equal(t, 2, fx.mailer.sent)

	if first != fx.mailer.code {
		_, err := fx.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "vendor@example.com", Code: first})
		require.ErrorIs(t, err, ErrCodeInvalid)
	}

	result, err := fx.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "vendor@example.com", Code: fx.mailer.code})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
}

func TestPurgeExpiredCodes(t *testing.T) {
	fx := setupAuth(t, time.Millisecond, 0)
	register(t, fx)
	ctx := context.Background()

	require.NoError(t, fx.svc.Login(ctx, LoginRequest{Email: "vendor@example.com", Password: "correct horse"}))
	time.Sleep(5 * time.Millisecond)

	purged, err := fx.codes.PurgeExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)
}
