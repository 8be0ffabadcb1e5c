package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAccessTTL  = "1h"
	defaultRefreshTTL = "168h"
	defaultOTPTTL     = "10m"
	defaultJWTSecret  = "change-me-jwt-secret"
	defaultAudience   = "epool-client"
	defaultIssuer     = "epool-api"
)

type Config struct {
	AppEnv  string
	Port    string
	DevMode bool

	// PublicBaseURL composes invite URLs returned by generate-link.
	PublicBaseURL string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	JWTAudience     string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	OTPTTL     time.Duration
	BcryptCost int

	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	SenderEmail string

	SpacesKey      string
	SpacesSecret   string
	SpacesBucket   string
	SpacesRegion   string
	SpacesEndpoint string

	UploadMaxBytes   int64
	AllowedMimeTypes []string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)
	cfg.Port = getEnv("PORT", "8080")
	cfg.DevMode = parseBoolEnv("DEV_MODE", "false")
	cfg.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+cfg.Port), "/")

	cfg.DatabaseURL = getEnv("DATABASE_URL", "epool.db")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	var err error
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.JWTAudience = getEnv("JWT_AUDIENCE", defaultAudience)
	cfg.JWTIssuer = getEnv("JWT_ISSUER", defaultIssuer)

	if cfg.AccessTokenTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultAccessTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = parseDurationEnv("JWT_REFRESH_TTL", defaultRefreshTTL); err != nil {
		return nil, err
	}
	if cfg.OTPTTL, err = parseDurationEnv("OTP_TTL", defaultOTPTTL); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = parseIntEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)); err != nil {
		return nil, err
	}

	cfg.SMTPHost = getEnv("MAIL_HOST", "localhost")
	if cfg.SMTPPort, err = parseIntEnv("MAIL_PORT", "587"); err != nil {
		return nil, err
	}
	cfg.SMTPUser = os.Getenv("MAIL_USERNAME")
	cfg.SMTPPass = os.Getenv("MAIL_PASSWORD")
	cfg.SenderEmail = getEnv("SENDER_EMAIL", "no-reply@epool.app")

	cfg.SpacesKey = os.Getenv("SPACES_ACCESS_KEY_ID")
	cfg.SpacesSecret = os.Getenv("SPACES_SECRET_ACCESS_KEY")
	cfg.SpacesBucket = getEnv("SPACES_BUCKET", "epool")
	cfg.SpacesRegion = getEnv("SPACES_REGION", "fra1")
	cfg.SpacesEndpoint = os.Getenv("SPACES_ENDPOINT")

	maxMB, err := parseIntEnv("UPLOAD_MAX_MB", "10")
	if err != nil {
		return nil, err
	}
	cfg.UploadMaxBytes = int64(maxMB) << 20
	cfg.AllowedMimeTypes = splitEnv("UPLOAD_ALLOWED_TYPES",
		"image/png,image/jpeg,image/gif,image/webp,video/mp4,video/quicktime")

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.RefreshTokenTTL <= 0 {
		return fmt.Errorf("JWT_REFRESH_TTL must be > 0")
	}
	if cfg.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be > 0")
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST out of range")
	}
	if cfg.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_MB must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.SpacesKey == "" || cfg.SpacesSecret == "" {
			return fmt.Errorf("in prod/release SPACES credentials must be set")
		}
		if cfg.DevMode {
			return fmt.Errorf("DEV_MODE must not be enabled in prod/release")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitEnv(name, fallback string) []string {
	raw := getEnv(name, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
