package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultServerAddr       = ":8080"
	defaultDatabaseURL      = "empanelment.db"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTAccessTTL     = "24h"
	defaultOTPCodeTTL       = "5m"
	defaultOTPResend        = "60s"
	defaultOTPPepper        = "change-me-otp-pepper"
	defaultUploadDir        = "./uploads"
	defaultUploadMaxSize    = 100 << 20 // 100 MB
	defaultTransitionPolicy = "permissive"
)

type Config struct {
	ServerAddr  string
	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	OTPCodeTTL        time.Duration
	OTPResendCooldown time.Duration
	OTPPepper         string

	UploadDir     string
	UploadMaxSize int64

	// TransitionPolicy selects how status changes on update are checked:
	// "permissive" allows any known status, "strict" enforces the review graph.
	TransitionPolicy string
}

func Load() (*Config, error) {
	// Local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr:       getEnv("SERVER_ADDR", defaultServerAddr),
		DatabaseURL:      getEnv("DATABASE_URL", defaultDatabaseURL),
		JWTSecret:        strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		OTPPepper:        strings.TrimSpace(getEnv("OTP_PEPPER", defaultOTPPepper)),
		UploadDir:        getEnv("UPLOAD_DIR", defaultUploadDir),
		TransitionPolicy: strings.ToLower(getEnv("STATUS_TRANSITION_POLICY", defaultTransitionPolicy)),
	}

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.OTPCodeTTL, err = parseDurationEnv("OTP_CODE_TTL", defaultOTPCodeTTL)
	if err != nil {
		return nil, err
	}
	cfg.OTPResendCooldown, err = parseDurationEnv("OTP_RESEND_COOLDOWN", defaultOTPResend)
	if err != nil {
		return nil, err
	}

	cfg.UploadMaxSize = defaultUploadMaxSize
	if raw := strings.TrimSpace(os.Getenv("UPLOAD_MAX_SIZE")); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("UPLOAD_MAX_SIZE must be a positive integer, got %q", raw)
		}
		cfg.UploadMaxSize = size
	}

	if cfg.TransitionPolicy != "permissive" && cfg.TransitionPolicy != "strict" {
		return nil, fmt.Errorf("STATUS_TRANSITION_POLICY must be permissive or strict, got %q", cfg.TransitionPolicy)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return d, nil
}
