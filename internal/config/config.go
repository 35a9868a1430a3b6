package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	Engine   EngineConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrationsDir string
	RunSeeders    bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret string
}

type LogConfig struct {
	Level string
}

type EngineConfig struct {
	BaseQuestionnaireID int64
	MatchConcurrency    int
	BatchWorkers        int
	CatalogTTL          time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment values win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  stringOr(opt("DB_SSL_MODE"), "disable"),

		ConnectTimeout:        secondsOr(opt("DB_CONNECT_TIMEOUT"), 5*time.Second),
		PoolMaxConns:          int32(intOr(opt("DB_POOL_MAX_CONNS"), 0)),
		PoolMinConns:          int32(intOr(opt("DB_POOL_MIN_CONNS"), 0)),
		PoolMaxConnLifetime:   secondsOr(opt("DB_POOL_MAX_CONN_LIFETIME"), 0),
		PoolMaxConnIdleTime:   secondsOr(opt("DB_POOL_MAX_CONN_IDLE_TIME"), 0),
		PoolHealthCheckPeriod: secondsOr(opt("DB_POOL_HEALTH_CHECK_PERIOD"), 0),

		MigrationsDir: stringOr(opt("DB_MIGRATIONS_DIR"), "migrations"),
		RunSeeders:    boolOr(opt("DB_RUN_SEEDERS"), false),
	}

	cfg.Redis = RedisConfig{
		Host:     stringOr(opt("REDIS_HOST"), "localhost"),
		Port:     stringOr(opt("REDIS_PORT"), "6379"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      secondsOr(opt("REDIS_TTL"), 600*time.Second),
	}

	cfg.JWT = JWTConfig{
		AccessSecret: opt("JWT_ACCESS_SECRET"),
	}

	cfg.Log = LogConfig{
		Level: stringOr(opt("LOG_LEVEL"), "info"),
	}

	cfg.Engine = EngineConfig{
		BaseQuestionnaireID: int64(intOr(opt("BASE_QUESTIONNAIRE_ID"), 0)),
		MatchConcurrency:    intOr(opt("MATCH_CONCURRENCY"), 8),
		BatchWorkers:        intOr(opt("BATCH_WORKERS"), 4),
		CatalogTTL:          secondsOr(opt("CATALOG_TTL"), 15*time.Minute),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func (c DatabaseConfig) Configured() bool {
	return c.DBHost != "" && c.DBPort != "" && c.DBName != "" && c.DBUser != ""
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func boolOr(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

// secondsOr accepts either a bare number of seconds or a Go duration string.
func secondsOr(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if v, err := strconv.Atoi(raw); err == nil {
		if v <= 0 {
			return def
		}
		return time.Duration(v) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
