package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "LUXERENT"

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the storage backend. An empty URL keeps all data in
// process memory.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type AdminConfig struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// AIConfig configures the OpenAI-compatible endpoint used to draft messages.
// Without an API key the static templates are used.
type AIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AutomationConfig struct {
	Interval       time.Duration `mapstructure:"interval"`
	SimulatedDelay time.Duration `mapstructure:"simulated_delay"`
}

type PaymentConfig struct {
	// Mode is "local" (in-process) or "temporal".
	Mode         string        `mapstructure:"mode"`
	SendDelay    time.Duration `mapstructure:"send_delay"`
	ConfirmDelay time.Duration `mapstructure:"confirm_delay"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
}

type NotificationConfig struct {
	EmailFrom string `mapstructure:"email_from"`
	SMSSender string `mapstructure:"sms_sender"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	AppEnv       string             `mapstructure:"app_env"`
	LogLevel     string             `mapstructure:"log_level"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Admin        AdminConfig        `mapstructure:"admin"`
	AI           AIConfig           `mapstructure:"ai"`
	Automation   AutomationConfig   `mapstructure:"automation"`
	Payment      PaymentConfig      `mapstructure:"payment"`
	Temporal     TemporalConfig     `mapstructure:"temporal"`
	Notification NotificationConfig `mapstructure:"notification"`
	CORS         CORSConfig         `mapstructure:"cors"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("admin.name", "LuxeRent Admin")
	v.SetDefault("admin.email", "admin@luxerent.com")
	v.SetDefault("admin.password", "admin123")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("automation.interval", time.Duration(0))
	v.SetDefault("automation.simulated_delay", time.Duration(0))
	v.SetDefault("payment.mode", "local")
	v.SetDefault("payment.send_delay", 2*time.Second)
	v.SetDefault("payment.confirm_delay", 4*time.Second)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("notification.email_from", "billing@luxerent.com")
	v.SetDefault("notification.sms_sender", "LUXERENT")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

// Load reads .env, then config.yaml from the current directory or ./config,
// then LUXERENT_* environment variables. A missing config file is not an
// error; every key has a default except the JWT secret.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("jwt.secret must be set")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt.ttl must be positive")
	}
	switch c.Payment.Mode {
	case PaymentModeLocal, PaymentModeTemporal:
	default:
		return fmt.Errorf("payment.mode must be %q or %q, got %q", PaymentModeLocal, PaymentModeTemporal, c.Payment.Mode)
	}
	if c.Automation.Interval < 0 || c.Automation.SimulatedDelay < 0 {
		return errors.New("automation durations must not be negative")
	}
	return nil
}

const (
	PaymentModeLocal    = "local"
	PaymentModeTemporal = "temporal"
)

// UsesPostgres reports whether a database URL is configured.
func (c *Config) UsesPostgres() bool {
	return strings.TrimSpace(c.Database.URL) != ""
}
