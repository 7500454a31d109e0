package config

import (
	"time"

	"cascade/internal/services/commission"
)

// DBConfig holds database connection settings.
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN renders the postgres connection string.
func (c DBConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=disable"
}

// RedisConfig holds cache connection settings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig holds trade ingestion settings.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	GroupID      string
	BatchSize    int
	BatchTimeout time.Duration
	KeyIsTradeID bool
}

// Config is the full application configuration.
type Config struct {
	Port          string
	LogLevel      string
	JWTSecret     string
	WebhookSecret string
	CORSOrigins   string
	AuthRateLimit int
	DB            DBConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Rates         commission.Rates

	StripeSecretKey  string
	PayoutRatePerSec float64
	CacheTTL         time.Duration
	StaleTTL         time.Duration
}

// Load builds the configuration from the environment.
func Load() *Config {
	defaults := commission.DefaultRates()

	return &Config{
		Port:          GetEnv("PORT", "3000"),
		LogLevel:      GetEnv("LOG_LEVEL", "info"),
		JWTSecret:     GetEnv("JWT_SECRET", "cascade-dev-secret"),
		WebhookSecret: GetEnv("WEBHOOK_SECRET", ""),
		CORSOrigins:   GetEnv("CORS_ORIGINS", "http://localhost:3001,http://localhost:5173"),
		AuthRateLimit: GetIntEnv("AUTH_RATE_LIMIT", 5),
		DB: DBConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "cascade"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:      GetListEnv("KAFKA_BROKER", []string{"localhost:9092"}),
			Topic:        GetEnv("KAFKA_TOPIC", "trade_fees"),
			GroupID:      GetEnv("KAFKA_GROUP_ID", "cascade-trades"),
			BatchSize:    GetIntEnv("KAFKA_BATCH_SIZE", 100),
			BatchTimeout: GetDurationEnv("KAFKA_BATCH_TIMEOUT", 3*time.Second),
			KeyIsTradeID: GetEnv("KAFKA_KEY_IS_TRADE_ID", "false") == "true",
		},
		Rates: commission.Rates{
			Level1:   GetDecimalEnv("COMMISSION_LEVEL1_RATE", defaults.Level1),
			Level2:   GetDecimalEnv("COMMISSION_LEVEL2_RATE", defaults.Level2),
			Level3:   GetDecimalEnv("COMMISSION_LEVEL3_RATE", defaults.Level3),
			Cashback: GetDecimalEnv("COMMISSION_CASHBACK_RATE", defaults.Cashback),
		},
		StripeSecretKey:  GetEnv("STRIPE_SECRET_KEY", ""),
		PayoutRatePerSec: GetFloatEnv("PAYOUT_RATE_PER_SEC", 5),
		CacheTTL:         GetDurationEnv("CACHE_TTL", 24*time.Hour),
		StaleTTL:         GetDurationEnv("CACHE_STALE_TTL", 2*time.Minute),
	}
}
