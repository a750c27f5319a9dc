package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Confirmation ConfirmationConfig `mapstructure:"confirmation"`
	Log          LogConfig          `mapstructure:"log"`
	Ledger       LedgerConfig       `mapstructure:"ledger"`
	Fraud        FraudConfig        `mapstructure:"fraud"`
	Reconcile    ReconcileConfig    `mapstructure:"reconcile"`
	Aggregator   AggregatorConfig   `mapstructure:"aggregator"`
	Queue        QueueConfig        `mapstructure:"queue"`
	RateLimit    RateLimitConfig    `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL URL with user and password escaped.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// JWTConfig validates operator tokens. Tokens are issued by the dashboard, not here.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// ConfirmationConfig covers the counterparty confirmation channel (chat bot).
type ConfirmationConfig struct {
	Secret      string        `mapstructure:"secret"`     // shared HMAC secret with the bot
	PromptURL   string        `mapstructure:"prompt_url"` // empty disables outbound prompts
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	MaxDrift    time.Duration `mapstructure:"max_drift"` // accepted clock skew on signed callbacks
	NonceTTL    time.Duration `mapstructure:"nonce_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

type LedgerConfig struct {
	Driver      string          `mapstructure:"driver"` // cometbft, formance, memory
	Submitter   string          `mapstructure:"submitter"`
	FeePerWrite int64           `mapstructure:"fee_per_write"`
	Timeout     time.Duration   `mapstructure:"timeout"`
	Pending     string          `mapstructure:"pending"` // redis, memory
	CometBFT    CometBFTConfig  `mapstructure:"cometbft"`
	Formance    FormanceConfig  `mapstructure:"formance"`
	Memory      MemLedgerConfig `mapstructure:"memory"`
}

type CometBFTConfig struct {
	RPCURL string `mapstructure:"rpc_url"`
}

type FormanceConfig struct {
	StackURL     string `mapstructure:"stack_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	LedgerName   string `mapstructure:"ledger_name"`
	Asset        string `mapstructure:"asset"` // e.g. INR/2
}

type MemLedgerConfig struct {
	FeeBalance int64 `mapstructure:"fee_balance"`
}

// FraudConfig holds anomaly thresholds. All of them are tunable per deployment.
type FraudConfig struct {
	CreditMultiple  float64       `mapstructure:"credit_multiple"`
	FrequencyLimit  int           `mapstructure:"frequency_limit"`
	FrequencyWindow time.Duration `mapstructure:"frequency_window"`
	OffHoursStart   int           `mapstructure:"off_hours_start"`
	OffHoursEnd     int           `mapstructure:"off_hours_end"`
	PriceBand       float64       `mapstructure:"price_band"`
	CriticalScore   float64       `mapstructure:"critical_score"`
	Timezone        string        `mapstructure:"timezone"`
	HistoryTTL      time.Duration `mapstructure:"history_ttl"`
}

type ReconcileConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	GracePeriod time.Duration `mapstructure:"grace_period"`
	MaxRetries  int           `mapstructure:"max_retries"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
	BackoffMax  time.Duration `mapstructure:"backoff_max"`
	BatchSize   int           `mapstructure:"batch_size"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
}

type AggregatorConfig struct {
	Cutover  string `mapstructure:"cutover"` // HH:MM local time
	Timezone string `mapstructure:"timezone"`
}

type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	Size    int `mapstructure:"size"`
}

type RateLimitConfig struct {
	Backend string `mapstructure:"backend"` // redis, memory
}

// Location resolves the configured timezone, falling back to UTC.
func Location(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: VSL_.
// Nested keys use underscore: VSL_DATABASE_HOST, VSL_LEDGER_DRIVER, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("VSL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing file is fine: defaults plus VSL_* variables are a complete config.
	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Ledger.Driver {
	case "cometbft", "formance", "memory":
	default:
		return fmt.Errorf("unknown ledger driver %q", c.Ledger.Driver)
	}
	switch c.Ledger.Pending {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown ledger pending-set backend %q", c.Ledger.Pending)
	}
	switch c.RateLimit.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown ratelimit backend %q", c.RateLimit.Backend)
	}
	if _, err := ParseCutover(c.Aggregator.Cutover); err != nil {
		return err
	}
	if c.Fraud.OffHoursStart < 0 || c.Fraud.OffHoursStart > 23 || c.Fraud.OffHoursEnd < 0 || c.Fraud.OffHoursEnd > 23 {
		return fmt.Errorf("off-hours bounds must be within 0..23")
	}
	return nil
}

// ParseCutover parses an HH:MM daily cutover into an offset from midnight.
func ParseCutover(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid aggregator cutover %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
