package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	DB           DBConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	JWT          JWTConfig
	AI           AIConfig
	SMTP         SMTPConfig
	Mail         MailConfig
	Verification VerificationConfig
	Interview    InterviewConfig
	Storage      StorageConfig
	Session      SessionConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level string
	Env   string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

// AIConfig selects the text generation provider used for answer feedback.
type AIConfig struct {
	Provider       string // proxy, ollama or gemini
	Endpoint       string
	APIKey         string
	Model          string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	MaxRetries     int
	BackoffBase    time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

type MailConfig struct {
	Transport       string // smtp or resend
	ResendAPIKey    string
	From            string
	ComposeFallback bool
}

type VerificationConfig struct {
	CodeTTL     time.Duration
	MaxAttempts int
	CodePepper  string
	FailOpen    bool
}

type InterviewConfig struct {
	BatchTimeout time.Duration
}

// StorageConfig is optional; an empty Bucket disables upload archiving.
type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type SessionConfig struct {
	IdleTTL time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.body_limit", 10*1024*1024)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.name", "interview_coach")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("jwt.access_token_ttl", "24h")
	v.SetDefault("jwt.reset_token_ttl", "1h")

	v.SetDefault("ai.provider", "proxy")
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.request_timeout", "30s")
	v.SetDefault("ai.connect_timeout", "15s")
	v.SetDefault("ai.max_retries", 3)
	v.SetDefault("ai.backoff_base", "1s")

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.timeout", "15s")

	v.SetDefault("mail.transport", "smtp")
	v.SetDefault("mail.compose_fallback", true)

	v.SetDefault("verification.code_ttl", "15m")
	v.SetDefault("verification.max_attempts", 5)
	v.SetDefault("verification.fail_open", true)

	v.SetDefault("interview.batch_timeout", "3m")

	v.SetDefault("session.idle_ttl", "2h")
}

// LoadConfig reads config.yaml from path (a file or a directory) or, when path is
// empty, from the working directory and ./configs. Environment variables prefixed
// with APP_ override file values (APP_DB_HOST overrides db.host).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path == "":
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	case filepath.Ext(path) != "":
		v.SetConfigFile(path)
	default:
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// defaults and environment only
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		DB: DBConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: strings.ToLower(v.GetString("logger.level")),
			Env:   v.GetString("logger.env"),
		},
		JWT: JWTConfig{
			SecretKey:      v.GetString("jwt.secret_key"),
			AccessTokenTTL: v.GetDuration("jwt.access_token_ttl"),
			ResetTokenTTL:  v.GetDuration("jwt.reset_token_ttl"),
		},
		AI: AIConfig{
			Provider:       strings.ToLower(v.GetString("ai.provider")),
			Endpoint:       v.GetString("ai.endpoint"),
			APIKey:         v.GetString("ai.api_key"),
			Model:          v.GetString("ai.model"),
			RequestTimeout: v.GetDuration("ai.request_timeout"),
			ConnectTimeout: v.GetDuration("ai.connect_timeout"),
			MaxRetries:     v.GetInt("ai.max_retries"),
			BackoffBase:    v.GetDuration("ai.backoff_base"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.username"),
			Password: v.GetString("smtp.password"),
			From:     v.GetString("smtp.from"),
			Timeout:  v.GetDuration("smtp.timeout"),
		},
		Mail: MailConfig{
			Transport:       strings.ToLower(v.GetString("mail.transport")),
			ResendAPIKey:    v.GetString("mail.resend_api_key"),
			From:            v.GetString("mail.from"),
			ComposeFallback: v.GetBool("mail.compose_fallback"),
		},
		Verification: VerificationConfig{
			CodeTTL:     v.GetDuration("verification.code_ttl"),
			MaxAttempts: v.GetInt("verification.max_attempts"),
			CodePepper:  v.GetString("verification.code_pepper"),
			FailOpen:    v.GetBool("verification.fail_open"),
		},
		Interview: InterviewConfig{
			BatchTimeout: v.GetDuration("interview.batch_timeout"),
		},
		Storage: StorageConfig{
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			Endpoint:        v.GetString("storage.endpoint"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
		},
		Session: SessionConfig{
			IdleTTL: v.GetDuration("session.idle_ttl"),
		},
	}

	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.SMTP.From
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values LoadConfig cannot default sensibly.
func (c *Config) Validate() error {
	switch c.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logger.level %q", c.Logger.Level)
	}
	switch c.AI.Provider {
	case "proxy", "ollama", "gemini":
	default:
		return fmt.Errorf("invalid ai.provider %q", c.AI.Provider)
	}
	switch c.Mail.Transport {
	case "smtp", "resend":
	default:
		return fmt.Errorf("invalid mail.transport %q", c.Mail.Transport)
	}
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key is required")
	}
	if c.Verification.MaxAttempts <= 0 {
		return fmt.Errorf("verification.max_attempts must be positive")
	}
	return nil
}

func (c *Config) GetDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     c.DB.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DB.SSLMode),
	}
	return u.String()
}
