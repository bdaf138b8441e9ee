package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/YamesYamerson/secure-multimedia-storage/database"
	mediahttp "github.com/YamesYamerson/secure-multimedia-storage/http"
	"github.com/YamesYamerson/secure-multimedia-storage/identity"
	"github.com/YamesYamerson/secure-multimedia-storage/presign"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MEDIASTORE"

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for the broker.
type Config struct {
	Server      ServerConfig         `mapstructure:"server"`
	Database    database.Config      `mapstructure:"database"`
	ObjectStore presign.Config       `mapstructure:"object_store"`
	Auth        identity.Config      `mapstructure:"auth"`
	CORS        mediahttp.CORSConfig `mapstructure:"cors"`
	Log         LogConfig            `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int   `mapstructure:"port" validate:"required,min=1,max=65535"`
	MaxRequestBytes int64 `mapstructure:"max_request_bytes" validate:"min=0"`
	// ShutdownTimeout bounds graceful shutdown, in seconds.
	ShutdownTimeout int `mapstructure:"shutdown_timeout" validate:"min=1"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":    "database.type",
	"db-dsn":     "database.dsn",
	"port":       "server.port",
	"bucket":     "object_store.bucket",
	"endpoint":   "object_store.endpoint",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance. The defaults
// describe a local development setup: SQLite metadata, a MinIO-style
// endpoint on localhost and HMAC tokens.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_request_bytes", mediahttp.DefaultMaxRequestBytes)
	v.SetDefault("server.shutdown_timeout", 30)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "mediastore.db")
	v.SetDefault("database.tables.files", "files")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("object_store.backend", "s3")
	v.SetDefault("object_store.endpoint", "http://localhost:9000")
	v.SetDefault("object_store.region", "us-east-1")
	v.SetDefault("object_store.bucket", "media")
	v.SetDefault("object_store.access_key", "")
	v.SetDefault("object_store.secret_key", "")
	v.SetDefault("object_store.use_ssl", false)
	v.SetDefault("object_store.path_style", true)
	v.SetDefault("object_store.url_ttl", presign.DefaultURLTTL)

	v.SetDefault("auth.provider", "hmac")
	v.SetDefault("auth.jwks.url", "")
	v.SetDefault("auth.jwks.issuer", "")
	v.SetDefault("auth.jwks.audience", "")
	v.SetDefault("auth.jwks.leeway", 30*time.Second)
	v.SetDefault("auth.jwks.refresh_interval", time.Hour)
	v.SetDefault("auth.hmac.issuer", "mediastore")
	v.SetDefault("auth.hmac.leeway", 30*time.Second)
	v.SetDefault("auth.hmac.keys.file", "")
	v.SetDefault("auth.cache.size", 1024)
	v.SetDefault("auth.cache.ttl", 5*time.Minute)

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.validateCrossFields(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// validateCrossFields checks constraints that span nested sections.
func (c *Config) validateCrossFields() error {
	if err := c.Database.Tables.Validate(); err != nil {
		return err
	}

	if c.Auth.Provider == "jwks" && c.Auth.JWKS.URL == "" {
		return errors.New("auth.jwks.url is required when auth.provider is jwks")
	}

	if c.ObjectStore.URLTTL > presign.MaxURLTTL {
		return fmt.Errorf("object_store.url_ttl %s exceeds maximum of %s", c.ObjectStore.URLTTL, presign.MaxURLTTL)
	}

	if c.ObjectStore.Backend == "minio" && strings.Contains(c.ObjectStore.Endpoint, "://") {
		return errors.New("object_store.endpoint must be host[:port] for the minio backend")
	}

	return nil
}
