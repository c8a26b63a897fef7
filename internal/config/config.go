package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Translator TranslatorConfig `yaml:"translator"`
	Retention  RetentionConfig  `yaml:"retention"`
	Highlight  HighlightConfig  `yaml:"highlight"`
	CORS       CORSConfig       `yaml:"cors"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	Migrate         bool          `yaml:"migrate"            env:"DATABASE_MIGRATE"            env-default:"true"`
}

// TranslatorConfig holds translation endpoint settings.
type TranslatorConfig struct {
	BaseURL        string        `yaml:"base_url"        env:"TRANSLATOR_BASE_URL"        env-default:"https://translate.googleapis.com/translate_a/single"`
	SourceLang     string        `yaml:"source_lang"     env:"TRANSLATOR_SOURCE_LANG"     env-default:"en"`
	TargetLang     string        `yaml:"target_lang"     env:"TRANSLATOR_TARGET_LANG"     env-default:"zh-CN"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout" env:"TRANSLATOR_ATTEMPT_TIMEOUT" env-default:"6s"`
	MaxAttempts    int           `yaml:"max_attempts"    env:"TRANSLATOR_MAX_ATTEMPTS"    env-default:"2"`
}

// RetentionConfig holds daily-statistics retention settings. Pruning runs
// once at startup and then on the cron schedule.
type RetentionConfig struct {
	Days     int    `yaml:"days"     env:"RETENTION_DAYS"     env-default:"30"`
	Schedule string `yaml:"schedule" env:"RETENTION_SCHEDULE" env-default:"0 3 * * *"`
}

// HighlightConfig holds highlight engine settings.
type HighlightConfig struct {
	MaxTextNodes int `yaml:"max_text_nodes" env:"HIGHLIGHT_MAX_TEXT_NODES" env-default:"5000"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
