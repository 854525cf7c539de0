package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds the configuration for the application.
// Tags used:
// - mapstructure: environment key, used by viper to unmarshal
// - default: value used when the key is missing
// - required: if "true", an empty value is an error
type Config struct {
	Environment string `mapstructure:"APP_ENV" default:"development"`
	LogLevel    string `mapstructure:"LOG_LEVEL" default:"info"`
	HTTPPort    int    `mapstructure:"HTTP_PORT" default:"8080" required:"true"`
	StoreDriver string `mapstructure:"STORE_DRIVER" default:"postgres" required:"true"`

	Database DatabaseConfig `mapstructure:",squash"`
	Cache    CacheConfig    `mapstructure:",squash"`
	Recovery RecoveryConfig `mapstructure:",squash"`

	MetricsNamespace string `mapstructure:"METRICS_NAMESPACE" default:"baggage"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"DB_HOST" default:"localhost"`
	Port        int    `mapstructure:"DB_PORT" default:"5432"`
	User        string `mapstructure:"DB_USER"`
	Password    string `mapstructure:"DB_PASSWORD"`
	Name        string `mapstructure:"DB_NAME"`
	SslMode     string `mapstructure:"DB_SSLMODE" default:"disable"`
	AutoMigrate bool   `mapstructure:"DB_AUTO_MIGRATE" default:"true"`
}

// CacheConfig configures the snapshot cache. An empty RedisURL disables it.
type CacheConfig struct {
	RedisURL string        `mapstructure:"REDIS_URL"`
	TTL      time.Duration `mapstructure:"SNAPSHOT_CACHE_TTL" default:"5m"`
}

// RecoveryConfig configures the pipeline recovery job. An empty Schedule disables it.
type RecoveryConfig struct {
	Schedule  string        `mapstructure:"RECOVERY_SCHEDULE" default:"0 * * * * *"`
	IdleAfter time.Duration `mapstructure:"RECOVERY_IDLE_AFTER" default:"2m"`
}

// DSN builds the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SslMode)
}

// LoadConfig reads <path>/.env into the environment when the file exists and then
// resolves every key from the environment.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	// an explicitly empty key, such as RECOVERY_SCHEDULE=, overrides its default
	v.AllowEmptyEnv(true)

	var config Config
	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverMemory:
		return nil
	case StoreDriverPostgres:
		if c.Database.User == "" || c.Database.Name == "" {
			return errors.New("missing required configuration: DB_USER and DB_NAME are needed for the postgres store")
		}
		return nil
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
}

// processTags binds every tagged key to the environment and registers its default.
func processTags(v *viper.Viper, config any) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}

		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}

		if defaultValue := field.Tag.Get("default"); defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks that fields marked as required have non-zero values.
func validateRequired(config any) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}
