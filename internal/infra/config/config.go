package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	HTTPAddress   string
	PublicBaseURL string

	AllowedOrigins   []string
	AllowCredentials bool
	CookieDomain     string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTIssuer         string
	JWTAudience       string

	AccessTokenTTL            time.Duration
	RefreshTokenTTL           time.Duration
	EmailVerificationTokenTTL time.Duration
	PasswordResetTokenTTL     time.Duration

	PasswordPepper string

	PostmarkServerToken string
	EmailFrom           string
	MailQueueKey        string
	MailMaxAttempts     int
	MailRetryDelay      time.Duration

	IPGeolocationAPIKey string
	GeoCacheTTL         time.Duration

	ProductPageSize  int
	CategoryPageSize int
	ImagePageSize    int
	ReviewPageSize   int
}

var required = []string{
	"DATABASE_URL",
	"REDIS_ADDRESS",
	"JWT_PRIVATE_KEY_PATH",
	"JWT_PUBLIC_KEY_PATH",
	"JWT_ISSUER",
	"JWT_AUDIENCE",
	"PASSWORD_PEPPER",
	"PUBLIC_BASE_URL",
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDRESS", ":8080")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "720h")
	v.SetDefault("EMAIL_VERIFICATION_TOKEN_TTL", "24h")
	v.SetDefault("PASSWORD_RESET_TOKEN_TTL", "1h")
	v.SetDefault("MAIL_QUEUE_KEY", "mail:outbound")
	v.SetDefault("MAIL_MAX_ATTEMPTS", 3)
	v.SetDefault("MAIL_RETRY_DELAY", "30s")
	v.SetDefault("GEO_CACHE_TTL", "24h")
	v.SetDefault("PRODUCT_PAGE_SIZE", 20)
	v.SetDefault("CATEGORY_PAGE_SIZE", 20)
	v.SetDefault("IMAGE_PAGE_SIZE", 20)
	v.SetDefault("REVIEW_PAGE_SIZE", 20)
	v.SetDefault("EMAIL_FROM", "no-reply@veloxcart.io")

	for _, key := range required {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
		if v.GetString(key) == "" {
			return nil, fmt.Errorf("required environment variable %s is not set", key)
		}
	}

	cfg := &Config{
		DatabaseURL:               v.GetString("DATABASE_URL"),
		RedisAddress:              v.GetString("REDIS_ADDRESS"),
		RedisPassword:             v.GetString("REDIS_PASSWORD"),
		RedisDB:                   v.GetInt("REDIS_DB"),
		HTTPAddress:               v.GetString("HTTP_ADDRESS"),
		PublicBaseURL:             v.GetString("PUBLIC_BASE_URL"),
		AllowedOrigins:            v.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials:          v.GetBool("ALLOW_CREDENTIALS"),
		CookieDomain:              v.GetString("COOKIE_DOMAIN"),
		JWTPrivateKeyPath:         v.GetString("JWT_PRIVATE_KEY_PATH"),
		JWTPublicKeyPath:          v.GetString("JWT_PUBLIC_KEY_PATH"),
		JWTIssuer:                 v.GetString("JWT_ISSUER"),
		JWTAudience:               v.GetString("JWT_AUDIENCE"),
		AccessTokenTTL:            v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:           v.GetDuration("REFRESH_TOKEN_TTL"),
		EmailVerificationTokenTTL: v.GetDuration("EMAIL_VERIFICATION_TOKEN_TTL"),
		PasswordResetTokenTTL:     v.GetDuration("PASSWORD_RESET_TOKEN_TTL"),
		PasswordPepper:            v.GetString("PASSWORD_PEPPER"),
		PostmarkServerToken:       v.GetString("POSTMARK_SERVER_TOKEN"),
		EmailFrom:                 v.GetString("EMAIL_FROM"),
		MailQueueKey:              v.GetString("MAIL_QUEUE_KEY"),
		MailMaxAttempts:           v.GetInt("MAIL_MAX_ATTEMPTS"),
		MailRetryDelay:            v.GetDuration("MAIL_RETRY_DELAY"),
		IPGeolocationAPIKey:       v.GetString("IPGEOLOCATION_API_KEY"),
		GeoCacheTTL:               v.GetDuration("GEO_CACHE_TTL"),
		ProductPageSize:           v.GetInt("PRODUCT_PAGE_SIZE"),
		CategoryPageSize:          v.GetInt("CATEGORY_PAGE_SIZE"),
		ImagePageSize:             v.GetInt("IMAGE_PAGE_SIZE"),
		ReviewPageSize:            v.GetInt("REVIEW_PAGE_SIZE"),
	}

	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 ||
		cfg.EmailVerificationTokenTTL <= 0 || cfg.PasswordResetTokenTTL <= 0 {
		return nil, fmt.Errorf("token TTLs must be positive durations")
	}

	return cfg, nil
}
