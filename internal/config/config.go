package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dues-app-go/pkg/logger"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort       string
	Env            string
	AllowedOrigins []string
	RequestTimeout time.Duration
	DB             DBConfig
	Supabase       SupabaseConfig
	Auth           AuthConfig
	Dues           DuesConfig
	RateLimit      RateLimitConfig
	Storage        StorageConfig
	Mail           MailConfig
	Realtime       RealtimeConfig
	Dashboard      DashboardConfig
	Metrics        MetricsConfig
}

type DBConfig struct {
	DSN                string
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	TimeZone           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	// SlowQueryThreshold marks statements logged at warn; zero disables.
	SlowQueryThreshold time.Duration
}

type SupabaseConfig struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	AuthTimeout    time.Duration
}

type AuthConfig struct {
	JWTSecret     string
	JWTExpiresIn  time.Duration
	SkipAuth      bool
	MockUserID    string
	MockUserEmail string
	MockUserRole  string
}

type DuesConfig struct {
	MonthlyAmount decimal.Decimal
	Currency      string
}

type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

type StorageConfig struct {
	Provider           string
	GCSBucket          string
	GCSCredentialsFile string
	MaxUploadBytes     int64
}

type MailConfig struct {
	Provider      string
	MailgunDomain string
	MailgunAPIKey string
	SenderEmail   string
	SenderName    string
}

type RealtimeConfig struct {
	Enabled bool
	Channel string
}

type DashboardConfig struct {
	CacheTTL time.Duration
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	dues, err := decimal.NewFromString(getEnv("DUES_MONTHLY_AMOUNT", "10"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DUES_MONTHLY_AMOUNT: %w", err)
	}

	return Config{
		HTTPPort:       getEnv("PORT", getEnv("HTTP_PORT", "3001")),
		Env:            getEnv("ENV", "development"),
		AllowedOrigins: getEnvList("FRONTEND_URL", []string{"http://localhost:5173"}),
		RequestTimeout: getEnvDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second),
		DB: DBConfig{
			DSN:                getEnv("DB_DSN", ""),
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", "postgres"),
			Password:           getEnv("DB_PASSWORD", "postgres"),
			Name:               getEnv("DB_NAME", "dues_app"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			TimeZone:           getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:    getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			SlowQueryThreshold: getEnvDuration("DB_SLOW_QUERY_THRESHOLD", 200*time.Millisecond),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			AnonKey:        getEnv("SUPABASE_ANON_KEY", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			AuthTimeout:    getEnvDuration("SUPABASE_AUTH_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			JWTExpiresIn:  getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
			SkipAuth:      getEnvBool("AUTH_SKIP", false),
			MockUserID:    getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail: getEnv("AUTH_MOCK_USER_EMAIL", "admin@example.com"),
			MockUserRole:  getEnv("AUTH_MOCK_USER_ROLE", "admin"),
		},
		Dues: DuesConfig{
			MonthlyAmount: dues,
			Currency:      getEnv("DUES_CURRENCY", "GHS"),
		},
		RateLimit: RateLimitConfig{
			Window:      getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			MaxRequests: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		},
		Storage: StorageConfig{
			Provider:           getEnv("STORAGE_PROVIDER", "supabase"),
			GCSBucket:          getEnv("GCS_BUCKET", ""),
			GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
			MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_SIZE_BYTES", 5*1024*1024)),
		},
		Mail: MailConfig{
			Provider:      getEnv("EMAIL_SERVICE_PROVIDER", "log"),
			MailgunDomain: getEnv("MAILGUN_DOMAIN", ""),
			MailgunAPIKey: getEnv("MAILGUN_PRIVATE_API_KEY", ""),
			SenderEmail:   getEnv("SENDER_EMAIL", ""),
			SenderName:    getEnv("SENDER_NAME", "Youth Ministry Treasury"),
		},
		Realtime: RealtimeConfig{
			Enabled: getEnvBool("REALTIME_ENABLED", true),
			Channel: getEnv("REALTIME_CHANNEL", "dues_changes"),
		},
		Dashboard: DashboardConfig{
			CacheTTL: getEnvDuration("DASHBOARD_CACHE_TTL", 30*time.Second),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			result = append(result, item)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
