package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the ops API server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Database holds the database configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Redis holds the cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// AWS holds the S3 upload configuration.
	AWS AWSConfig `mapstructure:",squash"`

	// Scraper holds scrape-run configuration.
	Scraper ScraperConfig `mapstructure:",squash"`

	// Proxy holds the upstream proxy configuration for browser scrapers.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// DSN is the PostgreSQL connection string.
	DSN string `mapstructure:"DATABASE_DSN" required:"true"`
}

// RedisConfig holds cache connection details.
type RedisConfig struct {
	// URL is the Redis connection URL (redis://[:password@]host[:port][/db]).
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379"`
	// TokenTTLSeconds is how long fetched auth tokens stay cached.
	TokenTTLSeconds int `mapstructure:"TOKEN_CACHE_TTL_SECONDS" default:"300"`
}

// AWSConfig holds the S3 upload settings for run artifacts.
type AWSConfig struct {
	// Region is the AWS region for the artifact bucket.
	Region string `mapstructure:"AWS_REGION" default:"us-east-1"`
	// Bucket is the S3 bucket receiving screenshots and exports.
	Bucket string `mapstructure:"AWS_BUCKET"`
}

// ScraperConfig holds scrape-run settings.
type ScraperConfig struct {
	// ShipmentID, when set, forces selection of a single shipment (manual re-trigger).
	ShipmentID string `mapstructure:"SHIPMENT_ID"`
	// Headless controls whether browser scrapers run without a display.
	Headless bool `mapstructure:"SCRAPER_HEADLESS" default:"true"`
	// PNCTBaseURL is the PNCT terminal API endpoint.
	PNCTBaseURL string `mapstructure:"PNCT_BASE_URL"`
	// APMBaseURL is the APM terminal tracking page.
	APMBaseURL string `mapstructure:"APM_BASE_URL"`
	// PTPBaseURL is the Ports America terminal API endpoint.
	PTPBaseURL string `mapstructure:"PTP_BASE_URL"`
}

// ProxyConfig holds upstream proxy details for scraping traffic.
type ProxyConfig struct {
	// Enabled toggles proxy usage for scrapers.
	Enabled bool `mapstructure:"PROXY_ENABLED" default:"false"`
	// Hostname is the upstream proxy host.
	Hostname string `mapstructure:"PROXY_HOST"`
	// Port is the upstream proxy port.
	Port int `mapstructure:"PROXY_PORT"`
	// Username is the proxy credential user.
	Username string `mapstructure:"PROXY_USERNAME"`
	// Password is the proxy credential secret.
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// TargetShipmentID parses the SHIPMENT_ID override.
// Malformed values are treated as absent so a bad manual trigger
// falls back to the normal eligibility query.
func (c ScraperConfig) TargetShipmentID() (uuid.UUID, bool) {
	if c.ShipmentID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.ShipmentID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
