package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	LLM        LLMConfig        `yaml:"llm"`
	Generation GenerationConfig `yaml:"generation"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LLMConfig holds settings for the external text-generation model.
type LLMConfig struct {
	APIKey      string        `yaml:"api_key"      env:"LLM_API_KEY"      env-required:"true"`
	Model       string        `yaml:"model"        env:"LLM_MODEL"        env-default:"claude-sonnet-4-20250514"`
	CallTimeout time.Duration `yaml:"call_timeout" env:"LLM_CALL_TIMEOUT" env-default:"60s"`
}

// GenerationConfig tunes the vocabulary-constrained generation engine.
type GenerationConfig struct {
	MaxRetries    int           `yaml:"max_retries"    env:"GENERATION_MAX_RETRIES"    env-default:"3"`
	VocabSample   int           `yaml:"vocab_sample"   env:"GENERATION_VOCAB_SAMPLE"   env-default:"50"`
	ImportWorkers int           `yaml:"import_workers" env:"GENERATION_IMPORT_WORKERS" env-default:"4"`
	ItemTimeout   time.Duration `yaml:"item_timeout"   env:"GENERATION_ITEM_TIMEOUT"   env-default:"60s"`
}
