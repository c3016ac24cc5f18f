package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port    string
	GinMode string

	DatabaseURL string

	SecretKey      string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
	PostsPerPage   int

	Mail     MailConfig
	Storage  StorageConfig
	LogLevel string

	FrontendURL string
}

type MailConfig struct {
	Server   string
	Port     int
	UseTLS   bool
	Username string
	Password string
	Sender   string
	Admins   []string
}

// StorageConfig describes the S3-compatible bucket holding uploaded avatars.
type StorageConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
	Endpoint        string
}

// Enabled reports whether enough settings are present to build a client.
func (s StorageConfig) Enabled() bool {
	return s.BucketName != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "v3blogs")

	v.SetDefault("ACCESS_TOKEN_TTL", "168h")
	v.SetDefault("RESET_TOKEN_TTL", "600s")
	v.SetDefault("POSTS_PER_PAGE", 25)

	v.SetDefault("MAIL_PORT", 25)
	v.SetDefault("S3_REGION", "auto")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
}

// Load reads an optional .env file, then environment variables and an
// optional config.yaml, in that order of precedence (env wins).
func Load() (*Config, error) {
	// A missing .env is normal in production.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:           v.GetString("PORT"),
		GinMode:        v.GetString("GIN_MODE"),
		DatabaseURL:    databaseURL(v),
		SecretKey:      v.GetString("SECRET_KEY"),
		AccessTokenTTL: parseDuration(v.GetString("ACCESS_TOKEN_TTL"), 7*24*time.Hour),
		ResetTokenTTL:  parseDuration(v.GetString("RESET_TOKEN_TTL"), 600*time.Second),
		PostsPerPage:   v.GetInt("POSTS_PER_PAGE"),
		Mail: MailConfig{
			Server:   v.GetString("MAIL_SERVER"),
			Port:     v.GetInt("MAIL_PORT"),
			UseTLS:   v.IsSet("MAIL_USE_TLS"),
			Username: v.GetString("MAIL_USERNAME"),
			Password: v.GetString("MAIL_PASSWORD"),
			Sender:   v.GetString("MAIL_SENDER"),
			Admins:   splitList(v.GetString("ADMINS")),
		},
		Storage: StorageConfig{
			AccountID:       v.GetString("S3_ACCOUNT_ID"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("S3_BUCKET_NAME"),
			PublicURL:       strings.TrimRight(v.GetString("S3_PUBLIC_URL"), "/"),
			Region:          v.GetString("S3_REGION"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
		},
		LogLevel:    v.GetString("LOG_LEVEL"),
		FrontendURL: strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY must be set")
	}
	if cfg.PostsPerPage <= 0 {
		cfg.PostsPerPage = 25
	}
	if cfg.Mail.Sender == "" && len(cfg.Mail.Admins) > 0 {
		cfg.Mail.Sender = cfg.Mail.Admins[0]
	}

	return cfg, nil
}

func databaseURL(v *viper.Viper) string {
	if dsn := v.GetString("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		v.GetString("DB_HOST"), v.GetString("DB_USER"), v.GetString("DB_PASSWORD"),
		v.GetString("DB_NAME"), v.GetString("DB_PORT"))
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
