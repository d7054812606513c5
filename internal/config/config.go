package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Session   SessionConfig   `mapstructure:"session"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BodyLimit    int           `mapstructure:"body_limit"`
}

// LoggerConfig controls the global zap logger. File is optional; when set,
// entries are also written to a rotating JSON file.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Env        string `mapstructure:"env"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// LLMConfig selects the generative model endpoint. APIKey is only a default
// credential for new sessions; each session may carry its own.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type ExtractorConfig struct {
	Mode        string        `mapstructure:"mode"` // local | remote
	URL         string        `mapstructure:"url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxPages    int           `mapstructure:"max_pages"`
	MaxFileSize int64         `mapstructure:"max_file_size"`
	Port        int           `mapstructure:"port"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	ExtractionTTL time.Duration `mapstructure:"extraction_ttl"`
}

type SessionConfig struct {
	Locale          string        `mapstructure:"locale"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	ExcerptLimit    int           `mapstructure:"excerpt_limit"`
}

// LoadConfig reads config.yaml (if any) and applies environment overrides.
// Environment keys use underscores in place of dots, e.g. LLM_PROVIDER.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables always win.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if path := os.Getenv("QBANK_CONFIG"); path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.body_limit", 25*1024*1024)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", 10)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age_days", 30)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-flash")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.temperature", 0.4)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.timeout", 60*time.Second)

	v.SetDefault("extractor.mode", "local")
	v.SetDefault("extractor.url", "http://localhost:5000")
	v.SetDefault("extractor.timeout", 60*time.Second)
	v.SetDefault("extractor.max_pages", 50)
	v.SetDefault("extractor.max_file_size", 20*1024*1024)
	v.SetDefault("extractor.port", 5000)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.extraction_ttl", 24*time.Hour)

	v.SetDefault("session.locale", "en")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.cleanup_interval", 10*time.Minute)
	v.SetDefault("session.excerpt_limit", 30000)
}

// Validate rejects values that would make the service unusable at startup.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai", "ollama", "anthropic":
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	switch c.Extractor.Mode {
	case "local", "remote":
	default:
		return fmt.Errorf("unsupported extractor mode: %q", c.Extractor.Mode)
	}
	if c.Extractor.Mode == "remote" && c.Extractor.URL == "" {
		return fmt.Errorf("extractor.url is required in remote mode")
	}
	if c.Session.ExcerptLimit <= 0 {
		return fmt.Errorf("session.excerpt_limit must be positive, got %d", c.Session.ExcerptLimit)
	}
	return nil
}

// Address returns the API listen address.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
