package utils

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	JWT       JWTConfig
	Staff     StaffConfig
	RateLimit RateLimitConfig
	Rental    RentalConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string

	// CORSOrigins lists allowed browser origins; empty allows any.
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

type RabbitMQConfig struct {
	URL string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// StaffConfig holds the single staff account. The password is stored as a
// bcrypt hash.
type StaffConfig struct {
	Username     string
	PasswordHash string
}

type RateLimitConfig struct {
	RequestsPerSecond int
	SubmitPerMinute   int
	SubmitBurst       int
}

type RentalConfig struct {
	SlotMinutes int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "facility-rental")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_CACHE_TTL", 60)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("STAFF_USERNAME", "admin")
	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("SUBMIT_RATE_PER_MINUTE", 5)
	viper.SetDefault("SUBMIT_BURST", 3)
	viper.SetDefault("SLOT_MINUTES", 60)

	// A missing .env is fine; the environment alone can configure the app.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),

			CORSOrigins: viper.GetStringSlice("CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:       viper.GetString("REDIS_ADDR"),
			Password:   viper.GetString("REDIS_PASSWORD"),
			DB:         viper.GetInt("REDIS_DB"),
			TTLSeconds: viper.GetInt("REDIS_CACHE_TTL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL: viper.GetString("RABBITMQ_URL"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Staff: StaffConfig{
			Username:     viper.GetString("STAFF_USERNAME"),
			PasswordHash: viper.GetString("STAFF_PASSWORD_HASH"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetInt("RATE_LIMIT_RPS"),
			SubmitPerMinute:   viper.GetInt("SUBMIT_RATE_PER_MINUTE"),
			SubmitBurst:       viper.GetInt("SUBMIT_BURST"),
		},
		Rental: RentalConfig{
			SlotMinutes: viper.GetInt("SLOT_MINUTES"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}
