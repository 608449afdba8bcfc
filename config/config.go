package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging" validate:"required"`
	Catalog   CatalogConfig   `mapstructure:"catalog" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level" validate:"oneof=debug info warn error fatal"`
	Format   string `mapstructure:"format" validate:"oneof=json text"`
	Output   string `mapstructure:"output" validate:"oneof=stdout file"`
	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`
}

// CatalogConfig holds the reference sets a study group is validated against.
type CatalogConfig struct {
	Courses   []string `mapstructure:"courses" validate:"min=1,dive,required"`
	Locations []string `mapstructure:"locations" validate:"min=1,dive,required"`
}

type StorageConfig struct {
	Driver       string `mapstructure:"driver" validate:"oneof=memory sqlite postgres"`
	DSN          string `mapstructure:"dsn" validate:"required_if=Driver postgres"`
	BcryptCost   int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

type SnowflakeConfig struct {
	WorkerID     int64 `mapstructure:"worker_id" validate:"gte=0,lte=31"`
	DatacenterID int64 `mapstructure:"datacenter_id" validate:"gte=0,lte=31"`
}

// MetricsConfig toggles the in-process Prometheus collectors.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type NotifyConfig struct {
	Driver string      `mapstructure:"driver" validate:"oneof=none redis kafka"`
	Redis  RedisConfig `mapstructure:"redis"`
	Kafka  KafkaConfig `mapstructure:"kafka"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	Prefix   string `mapstructure:"prefix"`
}

type KafkaConfig struct {
	Brokers    []string `mapstructure:"brokers"`
	Topic      string   `mapstructure:"topic"`
	MaxRetries int      `mapstructure:"max_retries"`
}

// DefaultCourses is the campus course table used when no catalog is configured.
var DefaultCourses = []string{
	"ECS1100", "CS1200", "CS2305", "CS2336", "CS2340", "CS3162", "CS3341", "CS3354", "CS3377", "ECS2390",
	"CS4141", "CS4337", "CS4341", "CS4347", "CS4348", "CS4349", "CS4384", "CS4485", "CS4365", "CS4375",
}

// DefaultLocations is the campus building table used when no catalog is configured.
var DefaultLocations = []string{"SCI", "SLC", "JO", "GR", "Library", "FO", "ECSW", "ECSS", "ECSN", "JSOM"}

var validate = validator.New()

// Default returns the configuration used when no file is given: the built-in
// defaults with any STUDYGROUP_* environment overrides applied.
//
// Returns:
//   - *Config: The validated configuration
//   - error: A validation error when an environment override is invalid
func Default() (*Config, error) {
	return load(newViper())
}

// LoadConfig reads the TOML file at path, applies STUDYGROUP_* environment
// overrides on top of the defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return load(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("STUDYGROUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("catalog.courses", DefaultCourses)
	v.SetDefault("catalog.locations", DefaultLocations)
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.bcrypt_cost", 10)
	v.SetDefault("storage.max_idle_conns", 2)
	v.SetDefault("storage.max_open_conns", 1)
	v.SetDefault("snowflake.worker_id", 1)
	v.SetDefault("notify.driver", "none")
	v.SetDefault("notify.redis.host", "127.0.0.1")
	v.SetDefault("notify.redis.port", 6379)
	v.SetDefault("notify.redis.pool_size", 10)
	v.SetDefault("notify.redis.prefix", "studygroup")
	v.SetDefault("notify.kafka.topic", "studygroup.messages")
	v.SetDefault("notify.kafka.max_retries", 5)
	v.SetDefault("metrics.enabled", true)
	return v
}

func load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks struct tags and the cross-field notifier requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Notify.Driver {
	case "redis":
		if c.Notify.Redis.Host == "" || c.Notify.Redis.Port == 0 {
			return errors.New("invalid config: notify.redis requires host and port")
		}
	case "kafka":
		if len(c.Notify.Kafka.Brokers) == 0 || c.Notify.Kafka.Topic == "" {
			return errors.New("invalid config: notify.kafka requires brokers and topic")
		}
	}
	return nil
}
