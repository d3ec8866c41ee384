package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`

	// Per-IP middleware limiter.
	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Per-actor sliding window on booking creation.
	BookingRateLimit   int `mapstructure:"BOOKING_RATE_LIMIT"`
	BookingRateWindowS int `mapstructure:"BOOKING_RATE_WINDOW_SECONDS"`

	// Minimum lead time before a slot occurrence can be reserved.
	BookingLeadTimeMin int `mapstructure:"BOOKING_LEAD_TIME_MINUTES"`

	// Whether slots with no date and no recurrence expand on every day of the
	// queried range. Off by default; the behaviour is surprising enough that
	// it has to be asked for explicitly.
	UndatedSlotsDaily bool `mapstructure:"UNDATED_SLOTS_DAILY"`

	// Minimum length of rejection/cancellation reasons.
	MinReasonLength int `mapstructure:"MIN_REASON_LENGTH"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("BOOKING_RATE_LIMIT", 20)
	viper.SetDefault("BOOKING_RATE_WINDOW_SECONDS", 3600)
	viper.SetDefault("BOOKING_LEAD_TIME_MINUTES", 60)
	viper.SetDefault("UNDATED_SLOTS_DAILY", false)
	viper.SetDefault("MIN_REASON_LENGTH", 10)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
