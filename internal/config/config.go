package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	Port            string
	StoreDriver     string
	MySQLDSN        string
	MaxOpenConns    int
	MaxIdleConns    int
	RunMigrations   bool
	RedisAddr       string
	EventBroker     string
	RabbitMQURL     string
	RabbitExchange  string
	KafkaBrokers    string
	KafkaTopic      string
	JWTSecret       string
	JWTIssuer       string
	JWTAudience     string
	RateLimit       int
	RateWindow      time.Duration
	CORSOrigins     []string
	OrderCacheTTL   time.Duration
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and then builds Config from the
// environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	cfg := FromEnv()
	return cfg, cfg.Validate()
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		Port:            envOrDefault("PORT", "8080"),
		StoreDriver:     envOrDefault("STORE_DRIVER", "mysql"),
		MySQLDSN:        mysqlDSN(),
		MaxOpenConns:    envInt("MYSQL_MAX_OPEN_CONNS", 50),
		MaxIdleConns:    envInt("MYSQL_MAX_IDLE_CONNS", 10),
		RunMigrations:   envBool("RUN_MIGRATIONS", false),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		EventBroker:     envOrDefault("EVENT_BROKER", "none"),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),
		RabbitExchange:  envOrDefault("RABBITMQ_EXCHANGE", "farmconnect.orders"),
		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:      envOrDefault("KAFKA_TOPIC", "farmconnect.orders"),
		JWTSecret:       os.Getenv("AUTH_JWT_SECRET"),
		JWTIssuer:       os.Getenv("AUTH_ISSUER"),
		JWTAudience:     os.Getenv("AUTH_AUDIENCE"),
		RateLimit:       envInt("RATE_LIMIT_REQUESTS", 120),
		RateWindow:      envDuration("RATE_LIMIT_WINDOW_SECONDS", time.Minute),
		CORSOrigins:     envList("CORS_ORIGINS", []string{"*"}),
		OrderCacheTTL:   envDuration("ORDER_CACHE_TTL_SECONDS", 10*time.Second),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case "mysql", "memory":
	default:
		return fmt.Errorf("STORE_DRIVER must be mysql or memory, got %q", c.StoreDriver)
	}
	switch c.EventBroker {
	case "none":
	case "rabbitmq":
		if c.RabbitMQURL == "" {
			return fmt.Errorf("RABBITMQ_URL is required when EVENT_BROKER=rabbitmq")
		}
	case "kafka":
		if c.KafkaBrokers == "" {
			return fmt.Errorf("KAFKA_BROKERS is required when EVENT_BROKER=kafka")
		}
	default:
		return fmt.Errorf("EVENT_BROKER must be none, rabbitmq or kafka, got %q", c.EventBroker)
	}
	if c.StoreDriver == "mysql" {
		if _, err := mysql.ParseDSN(c.MySQLDSN); err != nil {
			return fmt.Errorf("invalid MYSQL_DSN: %w", err)
		}
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	return nil
}

// mysqlDSN prefers MYSQL_DSN and otherwise assembles one from the
// MYSQL_* parts. parseTime is always on; the timestamp columns scan into
// time.Time. A DSN that does not parse is returned as is for Validate to
// report.
func mysqlDSN() string {
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		c, err := mysql.ParseDSN(dsn)
		if err != nil {
			return dsn
		}
		c.ParseTime = true
		return c.FormatDSN()
	}
	c := mysql.NewConfig()
	c.User = envOrDefault("MYSQL_USER", "farmconnect")
	c.Passwd = os.Getenv("MYSQL_PASSWORD")
	c.Net = "tcp"
	c.Addr = envOrDefault("MYSQL_HOST", "localhost") + ":" + envOrDefault("MYSQL_PORT", "3306")
	c.DBName = envOrDefault("MYSQL_DATABASE", "farmconnect")
	c.ParseTime = true
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
