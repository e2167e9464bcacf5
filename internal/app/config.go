package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	dbpkg "github.com/yungbote/mavedb-backend/internal/data/db"
	"github.com/yungbote/mavedb-backend/internal/observability"
)

type Config struct {
	LogMode  string
	HTTPAddr string
	DB       dbpkg.Config

	JWTSecretKey string
	JWTIssuer    string

	RedisAddr string
	CacheTTL  time.Duration

	MetricsEnabled bool
	CORSOrigins    []string
	Otel           observability.OtelConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.mode", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.cors_origins", []string{})
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "mave_admin")
	v.SetDefault("db.name", "mavedb")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.log_level", "warn")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service_name", "mavedb-api")
	v.SetDefault("otel.sample_ratio", 1.0)
}

// LoadConfig reads MAVEDB_* environment variables and, when configFile is set, a YAML/JSON/TOML
// file. Nested keys map to env names with "." replaced by "_", e.g. MAVEDB_DB_DSN.
func LoadConfig(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("MAVEDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
			}
		}
	}
	// Standard OTEL_* variables apply when the MAVEDB_ ones are unset.
	_ = v.BindEnv("otel.endpoint", "MAVEDB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	_ = v.BindEnv("otel.headers", "MAVEDB_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
	_ = v.BindEnv("otel.service_name", "MAVEDB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")

	cfg := Config{
		LogMode:  v.GetString("log.mode"),
		HTTPAddr: v.GetString("http.addr"),
		DB: dbpkg.Config{
			Driver:       v.GetString("db.driver"),
			DSN:          v.GetString("db.dsn"),
			Host:         v.GetString("db.host"),
			Port:         v.GetString("db.port"),
			User:         v.GetString("db.user"),
			Password:     v.GetString("db.password"),
			Name:         v.GetString("db.name"),
			SSLMode:      v.GetString("db.sslmode"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
			LogLevel:     v.GetString("db.log_level"),
		},
		JWTSecretKey:   v.GetString("auth.jwt_secret"),
		JWTIssuer:      v.GetString("auth.issuer"),
		RedisAddr:      strings.TrimSpace(v.GetString("cache.redis_addr")),
		CacheTTL:       v.GetDuration("cache.ttl"),
		MetricsEnabled: v.GetBool("metrics.enabled"),
		CORSOrigins:    splitList(v.GetStringSlice("http.cors_origins")),
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("otel.enabled"),
			ServiceName: v.GetString("otel.service_name"),
			Environment: v.GetString("otel.environment"),
			Version:     v.GetString("otel.version"),
			Endpoint:    v.GetString("otel.endpoint"),
			Headers:     observability.ParseHeaders(v.GetString("otel.headers")),
			Insecure:    v.GetBool("otel.insecure"),
			SampleRatio: v.GetFloat64("otel.sample_ratio"),
		},
	}
	if cfg.DB.Driver == "sqlite" {
		cfg.DB.MaxOpenConns = 1
	}
	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return errors.New("auth.jwt_secret (MAVEDB_AUTH_JWT_SECRET) is required")
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	return nil
}

// splitList accepts both list values and a single comma-separated env string.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
