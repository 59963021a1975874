package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config 서버 전체 설정
// 모든 값은 LICENSEGATE_ 접두사의 환경변수로 재정의할 수 있습니다.
type Config struct {
	Server    ServerConfig    `envconfig:"SERVER"`
	Database  DatabaseConfig  `envconfig:"DB"`
	Logging   LoggingConfig   `envconfig:"LOG"`
	Auth      AuthConfig      `envconfig:"AUTH"`
	Licensing LicensingConfig `envconfig:"LICENSING"`
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port         int           `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
}

// DatabaseConfig 데이터베이스 설정
// Type: "sqlite" 또는 "mysql", DSN: SQLite 파일 경로 또는 MySQL DSN
type DatabaseConfig struct {
	Type string `envconfig:"TYPE" default:"sqlite"`
	DSN  string `envconfig:"DSN" default:"./licensegate.db"`
}

// LoggingConfig 로깅 설정
type LoggingConfig struct {
	Level    string `envconfig:"LEVEL" default:"info"`
	Dir      string `envconfig:"DIR" default:"./logs"`
	MaxSize  int64  `envconfig:"MAX_SIZE" default:"10485760"` // 10MB
	MaxAge   int    `envconfig:"MAX_AGE" default:"7"`         // days
	UseColor bool   `envconfig:"USE_COLOR" default:"true"`
}

// AuthConfig 발급 API 인증 설정
// AdminAPIKey는 기동 시 argon2id로 해싱되어 메모리에는 해시만 유지됩니다.
type AuthConfig struct {
	AdminAPIKey string        `envconfig:"ADMIN_API_KEY" default:"admin-dev-key-change-this"`
	JWTSecret   string        `envconfig:"JWT_SECRET" default:"your-secret-key-change-this-in-production"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
}

// LicensingConfig 라이선스 발급/감사 설정
type LicensingConfig struct {
	MaxBatchSize       int `envconfig:"MAX_BATCH_SIZE" default:"1000"`
	AuditRetentionDays int `envconfig:"AUDIT_RETENTION_DAYS" default:"90"`
}

// Load 환경변수(.env 포함)에서 설정을 읽어들입니다.
func Load() (*Config, error) {
	// .env 파일은 있으면 읽고 없으면 무시
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("LICENSEGATE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if cfg.Database.Type != "sqlite" && cfg.Database.Type != "mysql" {
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}

	if cfg.Licensing.MaxBatchSize < 1 {
		return nil, fmt.Errorf("max batch size must be positive, got %d", cfg.Licensing.MaxBatchSize)
	}

	return &cfg, nil
}
