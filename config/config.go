package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config Kernel Configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Dispatcher DispatcherConfig `mapstructure:"dispatcher"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Example    ExampleConfig    `mapstructure:"example"`
}

// AppConfig Application Configuration
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"` // development, staging, production
}

// DatabaseConfig Database Configuration
type DatabaseConfig struct {
	Type            string        `mapstructure:"type"` // mysql, memory
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
	Retry           RetryConfig   `mapstructure:"retry"`
}

// RetryConfig Retry configuration for unit of work transactions
type RetryConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	MaxAttempts        int           `mapstructure:"max_attempts"`
	InitialDelay       time.Duration `mapstructure:"initial_delay"`
	MaxDelay           time.Duration `mapstructure:"max_delay"`
	BackoffFactor      float64       `mapstructure:"backoff_factor"`
	JitterEnabled      bool          `mapstructure:"jitter_enabled"`
	RetryOnDeadlock    bool          `mapstructure:"retry_on_deadlock"`
	RetryOnLockTimeout bool          `mapstructure:"retry_on_lock_timeout"`
}

// LogConfig Log Configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Format   string `mapstructure:"format"` // json, console
	Output   string `mapstructure:"output"` // stdout, file
	FilePath string `mapstructure:"file_path"`
}

// DispatcherConfig Domain event dispatcher configuration
type DispatcherConfig struct {
	// LogDispatch 是否在每次派发时输出 debug 日志
	LogDispatch bool `mapstructure:"log_dispatch"`
}

// WorkerConfig Outbox worker configuration
type WorkerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PublishRate  float64       `mapstructure:"publish_rate"`  // events per second, 0 disables throttling
	PublishBurst int           `mapstructure:"publish_burst"` // burst capacity
}

// ExampleConfig Settings for the example service
type ExampleConfig struct {
	Port      string          `mapstructure:"port"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig Rate Limiting Configuration
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"`  // Requests per second
	Burst   int     `mapstructure:"burst"` // Burst capacity
}

// IsDevelopment Whether it's development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction Whether it's production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Load Load Configuration
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// KERNEL_LOG_LEVEL overrides log.level, and so on
	v.SetEnvPrefix("KERNEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Use default values when config file doesn't exist
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// setDefaults Set default configuration
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "ddd-kernel")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "development")

	// Database
	v.SetDefault("database.type", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "ddd_kernel")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("database.retry.enabled", true)
	v.SetDefault("database.retry.max_attempts", 3)
	v.SetDefault("database.retry.initial_delay", "100ms")
	v.SetDefault("database.retry.max_delay", "2s")
	v.SetDefault("database.retry.backoff_factor", 2.0)
	v.SetDefault("database.retry.jitter_enabled", true)
	v.SetDefault("database.retry.retry_on_deadlock", true)
	v.SetDefault("database.retry.retry_on_lock_timeout", true)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/app.log")

	// Dispatcher
	v.SetDefault("dispatcher.log_dispatch", true)

	// Worker
	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.poll_interval", "1s")
	v.SetDefault("worker.batch_size", 100)
	v.SetDefault("worker.max_retries", 5)
	v.SetDefault("worker.publish_rate", 50)
	v.SetDefault("worker.publish_burst", 100)

	// Example
	v.SetDefault("example.port", "8081")
	v.SetDefault("example.rate_limit.enabled", true)
	v.SetDefault("example.rate_limit.rate", 20)
	v.SetDefault("example.rate_limit.burst", 40)
}
