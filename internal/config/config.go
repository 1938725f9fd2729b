package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	// Path is the SQLite database file, used when Driver is "sqlite"
	Path string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	CORSAllowedOrigins []string
}

// AttendanceConfig holds the attendance rules and query caps
type AttendanceConfig struct {
	LateHour      int
	HalfDayHours  decimal.Decimal
	NonWorkingDay time.Weekday
	HistoryLimit  int
	ListLimit     int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "postgres"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		Path:     getEnv("DB_PATH", "attendance.db"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "Local"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
	}

	// Attendance configuration
	lateHour, err := strconv.Atoi(getEnv("ATTENDANCE_LATE_HOUR", "9"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LATE_HOUR: %w", err)
	}
	halfDayHours, err := decimal.NewFromString(getEnv("ATTENDANCE_HALF_DAY_HOURS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_HALF_DAY_HOURS: %w", err)
	}
	nonWorkingDay, err := parseWeekday(getEnv("ATTENDANCE_NON_WORKING_DAY", "sunday"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_NON_WORKING_DAY: %w", err)
	}
	historyLimit, err := strconv.Atoi(getEnv("ATTENDANCE_HISTORY_LIMIT", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_HISTORY_LIMIT: %w", err)
	}
	listLimit, err := strconv.Atoi(getEnv("ATTENDANCE_LIST_LIMIT", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LIST_LIMIT: %w", err)
	}

	config.Attendance = AttendanceConfig{
		LateHour:      lateHour,
		HalfDayHours:  halfDayHours,
		NonWorkingDay: nonWorkingDay,
		HistoryLimit:  historyLimit,
		ListLimit:     listLimit,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is invalid: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}
	if c.Attendance.LateHour < 0 || c.Attendance.LateHour > 23 {
		return fmt.Errorf("ATTENDANCE_LATE_HOUR must be between 0 and 23")
	}
	if c.Attendance.HalfDayHours.IsNegative() {
		return fmt.Errorf("ATTENDANCE_HALF_DAY_HOURS must not be negative")
	}
	if c.Attendance.HistoryLimit <= 0 || c.Attendance.ListLimit <= 0 {
		return fmt.Errorf("ATTENDANCE_HISTORY_LIMIT and ATTENDANCE_LIST_LIMIT must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location resolves APP_TIMEZONE, the zone attendance days are counted in.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

// AttendancePolicy builds the attendance rules from the configuration.
func (c *Config) AttendancePolicy() (attendance.Policy, error) {
	loc, err := c.Location()
	if err != nil {
		return attendance.Policy{}, err
	}
	return attendance.Policy{
		LateHour:      c.Attendance.LateHour,
		HalfDayHours:  c.Attendance.HalfDayHours,
		NonWorkingDay: c.Attendance.NonWorkingDay,
		Location:      loc,
	}, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
