package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Mongo configuration.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking windows and background cadence.
	PaymentWindowMinutes  int `mapstructure:"PAYMENT_WINDOW_MINUTES"`
	ReviewWindowHours     int `mapstructure:"REVIEW_WINDOW_HOURS"`
	ReaperIntervalSeconds int `mapstructure:"REAPER_INTERVAL_SECONDS"`
	SlotCacheTTLSeconds   int `mapstructure:"SLOT_CACHE_TTL_SECONDS"`

	// Pricing fallback when a provider has no rate document.
	DefaultSessionAmount float64 `mapstructure:"DEFAULT_SESSION_AMOUNT"`
	DefaultCurrency      string  `mapstructure:"DEFAULT_CURRENCY"`
}

var AppConfig Config

// LoadConfig initializes Viper to load config values from env, file, or defaults.
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
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "slotline")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("PAYMENT_WINDOW_MINUTES", 10)
	viper.SetDefault("REVIEW_WINDOW_HOURS", 24)
	viper.SetDefault("REAPER_INTERVAL_SECONDS", 30)
	viper.SetDefault("SLOT_CACHE_TTL_SECONDS", 30)
	viper.SetDefault("DEFAULT_SESSION_AMOUNT", 50.0)
	viper.SetDefault("DEFAULT_CURRENCY", "USD")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// PaymentWindow is the time a requester has to upload payment proof.
func PaymentWindow() time.Duration {
	return time.Duration(AppConfig.PaymentWindowMinutes) * time.Minute
}

// ReviewWindow is the time an admin has to resolve a pending approval.
func ReviewWindow() time.Duration {
	return time.Duration(AppConfig.ReviewWindowHours) * time.Hour
}

// ReaperInterval is the cadence of the expiry sweep.
func ReaperInterval() time.Duration {
	return time.Duration(AppConfig.ReaperIntervalSeconds) * time.Second
}

// SlotCacheTTL bounds the staleness of cached slot lists.
func SlotCacheTTL() time.Duration {
	return time.Duration(AppConfig.SlotCacheTTLSeconds) * time.Second
}

// GetEnv returns the application environment.
func GetEnv() string {
	return AppConfig.Env
}

// IsProduction checks if the environment is production.
func IsProduction() bool {
	return GetEnv() == "production"
}
