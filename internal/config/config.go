package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTAccessTTL  = "24h"
	defaultMaxUploadSize = 50 << 20
)

// Config holds all configuration for the application.
// Values come from an optional config.yaml and from environment variables
// (server.address -> SERVER_ADDRESS).
type Config struct {
	AppEnv   string         `mapstructure:"app_env"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Storage  StorageConfig  `mapstructure:"storage"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

type ServerConfig struct {
	Address  string `mapstructure:"address"`
	BasePath string `mapstructure:"base_path"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	AccessTTL time.Duration `mapstructure:"access_ttl"`
}

// StorageConfig locates the upload roots. Empty per-category directories
// default to <UploadDir>/<category>.
type StorageConfig struct {
	UploadDir              string `mapstructure:"upload_dir"`
	ResourcesDir           string `mapstructure:"resources_dir"`
	QuestionAttachmentsDir string `mapstructure:"question_attachments_dir"`
	AnswerAttachmentsDir   string `mapstructure:"answer_attachments_dir"`
	MaxUploadSize          int64  `mapstructure:"max_upload_size"`
}

// RequestLimit bounds a whole request body: one file at MaxUploadSize plus
// room for the metadata part and multipart framing.
func (c StorageConfig) RequestLimit() int64 {
	return c.MaxUploadSize + 1<<20
}

type CORSConfig struct {
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// Origins splits the comma separated origin list.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads config.yaml from the given paths (missing file is fine) and
// overlays the environment.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app_env", "dev")
	v.SetDefault("log.mode", "development")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.base_path", "/api")
	v.SetDefault("database.dsn", "edushareqa.db")
	v.SetDefault("jwt.secret", defaultJWTSecret)
	v.SetDefault("jwt.access_ttl", defaultJWTAccessTTL)
	v.SetDefault("storage.upload_dir", "./uploads")
	v.SetDefault("storage.resources_dir", "")
	v.SetDefault("storage.question_attachments_dir", "")
	v.SetDefault("storage.answer_attachments_dir", "")
	v.SetDefault("storage.max_upload_size", defaultMaxUploadSize)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://localhost:5173")

	if len(paths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.JWT.Secret = strings.TrimSpace(cfg.JWT.Secret)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.JWT.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("STORAGE_MAX_UPLOAD_SIZE must be > 0")
	}
	if strings.TrimSpace(cfg.Storage.UploadDir) == "" {
		return fmt.Errorf("STORAGE_UPLOAD_DIR must not be empty")
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if cfg.Server.BasePath != "" && !strings.HasPrefix(cfg.Server.BasePath, "/") {
		return fmt.Errorf("SERVER_BASE_PATH must start with /")
	}

	if cfg.IsProdLike() {
		if isEmptyOrDefault(cfg.JWT.Secret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

// IsProdLike reports whether the app runs in a production environment.
func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
