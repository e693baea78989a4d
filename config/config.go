package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mailgun/mailgun-go/v4"
	"github.com/spf13/viper"
)

const (
	// DefaultEndpoint is the Mailgun API base used when no endpoint is configured.
	DefaultEndpoint = mailgun.APIBase
	// EUEndpoint is the region-specific alternate for EU accounts.
	EUEndpoint = mailgun.APIBaseEU

	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Site     SiteConfig     `mapstructure:"site"`
	Mailgun  MailgunConfig  `mapstructure:"mailgun"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	OTel     OTelConfig     `mapstructure:"otel"`
}

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`     // development, production
	BaseDir string `mapstructure:"base_dir"` // root for relative paths (log dirs, test fixtures)
}

// IsProduction reports whether the server runs in live mode.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Mode, ModeProduction)
}

// SiteConfig describes the deployment this service administers.
type SiteConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Title      string `mapstructure:"title"`
	FromEmail  string `mapstructure:"from_email"`
	AdminEmail string `mapstructure:"admin_email"`
}

type MailgunConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	Endpoint       string        `mapstructure:"endpoint"` // empty, "eu" or a full base URL
	Domain         string        `mapstructure:"domain"`
	Debug          bool          `mapstructure:"debug"`
	DisableSending bool          `mapstructure:"disable_sending"`
	EnableLogging  bool          `mapstructure:"enable_logging"`
	LogFolder      string        `mapstructure:"log_folder"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// BaseURL resolves the configured endpoint to an API base URL.
func (m MailgunConfig) BaseURL() string {
	switch strings.ToLower(strings.TrimSpace(m.Endpoint)) {
	case "":
		return DefaultEndpoint
	case "eu":
		return EUEndpoint
	}
	return strings.TrimRight(m.Endpoint, "/")
}

type WebhookConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	LogDir           string        `mapstructure:"log_dir"`
	Events           []string      `mapstructure:"events"`
	InboundSubdomain string        `mapstructure:"inbound_subdomain"`
	SigningKey       string        `mapstructure:"signing_key"`
	VerifySignature  bool          `mapstructure:"verify_signature"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	AuditToDatabase  bool          `mapstructure:"audit_to_database"`
}

type AdminConfig struct {
	DisabledSearchFilters []string          `mapstructure:"disabled_search_filters"`
	DefaultSearchParams   map[string]string `mapstructure:"default_search_params"`
}

type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Prefix     string        `mapstructure:"prefix"`
	MessageTTL time.Duration `mapstructure:"message_ttl"`
	WebhookTTL time.Duration `mapstructure:"webhook_ttl"`
	DomainTTL  time.Duration `mapstructure:"domain_ttl"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
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

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// ErrMissingJWTSecret means admin tokens cannot be verified.
var ErrMissingJWTSecret = errors.New("jwt.secret is not configured")

// Validate reports settings the admin API cannot run without.
func (j JWTConfig) Validate() error {
	if strings.TrimSpace(j.Secret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// OTelConfig configures trace export. Tracing is off when Endpoint is empty.
type OTelConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	Headers        string `mapstructure:"headers"` // k1=v1,k2=v2
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
}

// Enabled reports whether an exporter endpoint is configured.
func (o OTelConfig) Enabled() bool {
	return o.Endpoint != ""
}

// legacyEnv maps configuration keys to environment names honoured alongside
// the MG_ ones: those of existing CMS deployments and the OTLP exporter.
var legacyEnv = map[string]string{
	"mailgun.api_key":         "MAILGUN_API_KEY",
	"mailgun.domain":          "MAILGUN_DOMAIN",
	"mailgun.endpoint":        "MAILGUN_ENDPOINT",
	"mailgun.debug":           "MAILGUN_DEBUG",
	"mailgun.disable_sending": "MAILGUN_SENDING_DISABLED",
	"mailgun.enable_logging":  "MAILGUN_ENABLE_LOGGING",
	"webhook.log_dir":         "MAILGUN_WEBHOOK_LOG_DIR",
	"site.base_url":           "SS_BASE_URL",
	"otel.endpoint":           "OTEL_EXPORTER_OTLP_ENDPOINT",
	"otel.headers":            "OTEL_EXPORTER_OTLP_HEADERS",
}

// Load reads configuration from file and environment variables.
// A .env file in the working directory is loaded first when present.
// Environment variables override file values. Prefix: MG_, nested keys use
// underscore (MG_MAILGUN_API_KEY, MG_CACHE_ENABLED); the legacy MAILGUN_*
// names are honoured as well.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", ModeDevelopment)
	v.SetDefault("server.base_dir", ".")
	v.SetDefault("site.base_url", "http://localhost:8080")
	v.SetDefault("site.title", "")
	v.SetDefault("site.from_email", "")
	v.SetDefault("site.admin_email", "")
	v.SetDefault("mailgun.api_key", "")
	v.SetDefault("mailgun.endpoint", "")
	v.SetDefault("mailgun.domain", "")
	v.SetDefault("mailgun.debug", false)
	v.SetDefault("mailgun.disable_sending", false)
	v.SetDefault("mailgun.enable_logging", false)
	v.SetDefault("mailgun.log_folder", "silverstripe-cache/mailgun")
	v.SetDefault("mailgun.timeout", "10s")
	v.SetDefault("webhook.base_url", "")
	v.SetDefault("webhook.log_dir", "")
	v.SetDefault("webhook.events", []string{
		"clicked", "complained", "delivered", "opened",
		"permanent_fail", "temporary_fail", "unsubscribed",
	})
	v.SetDefault("webhook.inbound_subdomain", "mailgun")
	v.SetDefault("webhook.signing_key", "")
	v.SetDefault("webhook.verify_signature", false)
	v.SetDefault("webhook.token_ttl", "24h")
	v.SetDefault("webhook.audit_to_database", false)
	v.SetDefault("admin.disabled_search_filters", []string{})
	v.SetDefault("admin.default_search_params", map[string]string{})
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.prefix", "mailgun:")
	v.SetDefault("cache.message_ttl", "5m")
	v.SetDefault("cache.webhook_ttl", "24h")
	v.SetDefault("cache.domain_ttl", "24h")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "mailgun_admin")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("jwt.issuer", "mailgun-admin")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.headers", "")
	v.SetDefault("otel.service_name", "mailgun-admin")
	v.SetDefault("otel.service_version", "dev")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// MG_MAILGUN_API_KEY -> mailgun.api_key
	v.SetEnvPrefix("MG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := "MG_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("binding %s: %w", legacy, err)
		}
	}

	// Config file is optional, env vars can suffice.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
