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

	"github.com/sagarc03/todos"
	"github.com/sagarc03/todos/attachment"
	"github.com/sagarc03/todos/database"
	todoshttp "github.com/sagarc03/todos/http"
	"github.com/sagarc03/todos/imagefilter"
	"github.com/sagarc03/todos/keybackend"
)

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

// Config is the root configuration struct for the todos server.
type Config struct {
	Env         string               `mapstructure:"env" validate:"required,oneof=dev prod"`
	Server      ServerConfig         `mapstructure:"server"`
	Database    database.Config      `mapstructure:"database"`
	Storage     attachment.Config    `mapstructure:"storage"`
	Auth        AuthConfig           `mapstructure:"auth"`
	CORS        todoshttp.CORSConfig `mapstructure:"cors"`
	ImageFilter imagefilter.Config   `mapstructure:"image_filter"`
	Log         LogConfig            `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	MaxBodySize     int64         `mapstructure:"max_body_size" validate:"min=0"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// Migrate creates missing tables on startup instead of only validating them.
	Migrate bool `mapstructure:"migrate"`
}

// AuthConfig holds bearer token verification settings and key sources.
type AuthConfig struct {
	todos.AuthConfig `mapstructure:",squash"`
	Keys             keybackend.KeysConfig `mapstructure:"keys"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":      "database.type",
	"db-dsn":       "database.dsn",
	"storage-type": "storage.type",
	"jwks-url":     "auth.keys.jwks_url",
	"port":         "server.port",
	"migrate":      "server.migrate",
	"log-level":    "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
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

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_size", todoshttp.DefaultMaxBodySize)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.migrate", false)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "todos.db")
	v.SetDefault("database.tables.items", "todo_items")
	v.SetDefault("database.dynamodb.region", "us-east-1")

	v.SetDefault("storage.type", "s3")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.url_expiry", attachment.DefaultURLExpiry)
	v.SetDefault("storage.stowry.url_expiry", attachment.DefaultURLExpiry)

	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.public_base_url", "")
	v.SetDefault("storage.stowry.endpoint", "")
	v.SetDefault("storage.stowry.access_key", "")
	v.SetDefault("storage.stowry.secret_key", "")

	// empty defaults make these keys visible to AutomaticEnv
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.keys.jwks_url", "")
	v.SetDefault("auth.keys.file", "")
	v.SetDefault("auth.algorithms", todos.DefaultAlgorithms)
	v.SetDefault("auth.leeway", 0)
	v.SetDefault("auth.keys.min_refresh_interval", keybackend.DefaultMinRefreshInterval)
	v.SetDefault("auth.keys.fetch_timeout", keybackend.DefaultFetchTimeout)

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("image_filter.enabled", true)
	v.SetDefault("image_filter.width", imagefilter.DefaultWidth)
	v.SetDefault("image_filter.height", imagefilter.DefaultHeight)
	v.SetDefault("image_filter.quality", imagefilter.DefaultQuality)
	v.SetDefault("image_filter.max_bytes", imagefilter.DefaultMaxBytes)
	v.SetDefault("image_filter.max_pixels", imagefilter.DefaultMaxPixels)
	v.SetDefault("image_filter.fetch_timeout", imagefilter.DefaultFetchTimeout)
	v.SetDefault("image_filter.allow_private_networks", false)

	v.SetDefault("log.level", "info")
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
	v.SetEnvPrefix("TODOS")
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

	return &cfg, nil
}
