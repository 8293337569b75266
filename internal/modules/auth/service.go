package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"empanelment/internal/domain"
	"empanelment/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const maxVerifyAttempts = 5

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CodeRepository interface {
	Replace(ctx context.Context, code *repository.VerificationCode) error
	GetActive(ctx context.Context, userID int64) (*repository.VerificationCode, error)
	IncrementAttempts(ctx context.Context, id int64) error
	MarkUsed(ctx context.Context, id int64) error
}

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}

type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// DevConsoleMailer prints codes to the log instead of sending mail.
type DevConsoleMailer struct{}

func (DevConsoleMailer) SendVerificationCode(_ context.Context, email, code string) error {
	log.Printf("[DEV-EMAIL] verification code email=%s code=%s", email, code)
	return nil
}

// Service implements two-step login: password check issues a single-use
// verification code with an explicit expiry, stored hashed in the database.
type Service struct {
	users          UserRepository
	codes          CodeRepository
	jwt            jwtService
	mailer         Mailer
	pepper         string
	codeTTL        time.Duration
	resendCooldown time.Duration
}

func NewService(
	users UserRepository,
	codes CodeRepository,
	jwt jwtService,
	mailer Mailer,
	pepper string,
	codeTTL time.Duration,
	resendCooldown time.Duration,
) *Service {
	return &Service{
		users:          users,
		codes:          codes,
		jwt:            jwt,
		mailer:         mailer,
		pepper:         pepper,
		codeTTL:        codeTTL,
		resendCooldown: resendCooldown,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         domain.RoleVendor,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Login checks the password and issues a fresh OTP challenge. The previous
// challenge for the user, if any, is invalidated.
func (s *Service) Login(ctx context.Context, req LoginRequest) error {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return ErrInvalidCredentials
	}

	if current, err := s.codes.GetActive(ctx, user.ID); err == nil {
		if time.Since(current.LastSentAt) < s.resendCooldown {
			return ErrResendCooldown
		}
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	now := time.Now()
	row := &repository.VerificationCode{
		UserID:     user.ID,
		CodeHash:   s.hashCode(code),
		LastSentAt: now,
		ExpiresAt:  now.Add(s.codeTTL),
	}
	if err := s.codes.Replace(ctx, row); err != nil {
		return err
	}

	return s.mailer.SendVerificationCode(ctx, user.Email, code)
}

// VerifyOTP completes login. Codes are single-use and attempt-limited.
func (s *Service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrCodeExpired
		}
		return nil, err
	}

	challenge, err := s.codes.GetActive(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return nil, ErrCodeExpired
		}
		return nil, err
	}

	if challenge.Attempts >= maxVerifyAttempts {
		return nil, ErrTooManyAttempts
	}

	if !hmac.Equal([]byte(s.hashCode(req.Code)), []byte(challenge.CodeHash)) {
		if err := s.codes.IncrementAttempts(ctx, challenge.ID); err != nil {
			return nil, err
		}
		return nil, ErrCodeInvalid
	}

	if err := s.codes.MarkUsed(ctx, challenge.ID); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{User: user, AccessToken: token}, nil
}

func (s *Service) hashCode(code string) string {
	sum := sha256.Sum256([]byte(s.pepper + ":" + code))
	return hex.EncodeToString(sum[:])
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
