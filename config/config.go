// Application configuration loaded from ./config/config.yaml and the environment
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Booking  BookingConfig  `mapstructure:"booking"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Events   EventsConfig   `mapstructure:"events"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	AppVersion     string        `mapstructure:"app_version"`
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	Timeout        time.Duration `mapstructure:"timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AllowOrigins   []string      `mapstructure:"allow_origins"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateBurst      int           `mapstructure:"rate_burst"`
	Env            string        `mapstructure:"environment"`
	Mode           string        `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// connection pool
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

type BookingConfig struct {
	Fee           string `mapstructure:"fee"`            // decimal string, e.g. "10.00"
	CurrencyScale int32  `mapstructure:"currency_scale"` // digits after the decimal point
}

type WorkerConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	NoShowInterval time.Duration `mapstructure:"no_show_interval"`
	LockTTL        time.Duration `mapstructure:"lock_ttl"`
	LockKey        string        `mapstructure:"lock_key"`
}

type EventsConfig struct {
	Driver   string         `mapstructure:"driver"` // rabbitmq, kafka or empty
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

type RabbitMQConfig struct {
	URL          string `mapstructure:"url"`
	QueueName    string `mapstructure:"queue_name"`
	ExchangeName string `mapstructure:"exchange_name"`
	RetryCount   int    `mapstructure:"retry_count"`
}

type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

type CacheConfig struct {
	ScheduleTTL time.Duration `mapstructure:"schedule_ttl"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads config.yaml from path. A missing file is not an error:
// defaults and environment variables still apply.
func LoadConfig(path string) (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath(path)
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	setDefaults(viperInstance)

	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	err := viperInstance.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return &c, nil
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.app_version", "1.0.0")
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.rate_burst", 20)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "tennis")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "tenniscourts")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.pool_timeout", 4*time.Second)

	// Booking defaults
	v.SetDefault("booking.fee", "10.00")
	v.SetDefault("booking.currency_scale", 2)

	// Worker defaults
	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.no_show_interval", 5*time.Minute)
	v.SetDefault("worker.lock_ttl", time.Minute)
	v.SetDefault("worker.lock_key", "tenniscourts:no_show_sweep")

	// Events defaults
	v.SetDefault("events.driver", "")
	v.SetDefault("events.rabbitmq.queue_name", "reservation_events")
	v.SetDefault("events.rabbitmq.retry_count", 3)
	v.SetDefault("events.kafka.topic", "reservation-events")

	v.SetDefault("cache.schedule_ttl", 10*time.Minute)
	v.SetDefault("logging.level", "info")
}
