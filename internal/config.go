package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Environment   string              `mapstructure:"environment"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Mail          MailConfig          `mapstructure:"mail"`
	Attendance    AttendanceConfig    `mapstructure:"attendance"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	// SessionSecret signs the session cookie. The process refuses to start
	// without it; running unauthenticated is never acceptable.
	SessionSecret       string        `mapstructure:"session_secret" validate:"required,min=32"`
	SessionDuration     time.Duration `mapstructure:"session_duration"`
	VerificationExpiry  time.Duration `mapstructure:"verification_expiry"`
	PasswordResetExpiry time.Duration `mapstructure:"password_reset_expiry"`
	InvitationExpiry    time.Duration `mapstructure:"invitation_expiry"`
	BCryptCost          int           `mapstructure:"bcrypt_cost" validate:"required,min=10,max=15"`
	// InsecureCookie drops the Secure attribute from the session cookie.
	// Only for local development over plain http.
	InsecureCookie bool `mapstructure:"insecure_cookie"`
}

type MailConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	From        string        `mapstructure:"from"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	// Dev deployments log outgoing mail instead of dialing SMTP.
	UseLogSender bool `mapstructure:"use_log_sender"`
}

type AttendanceConfig struct {
	// Local-time window during which a check-in counts as on time.
	CheckInOpens   string `mapstructure:"check_in_opens"`
	CheckInCloses  string `mapstructure:"check_in_closes"`
	RejectOutside  bool   `mapstructure:"reject_outside_window"`
	TimezoneOffset int    `mapstructure:"timezone_offset_minutes"`
}

type StorageConfig struct {
	PayslipDir string `mapstructure:"payslip_dir"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ----------------- DEFAULTS / ENV -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds a Config entirely from environment variables,
// used for container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Environment: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:              getEnvAsInt("SERVER_PORT", 8080),
			BaseURL:           getEnv("SERVER_BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("SERVER_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Security: SecurityConfig{
			SessionSecret:       getEnv("SESSION_SECRET", ""),
			SessionDuration:     7 * 24 * time.Hour,
			VerificationExpiry:  24 * time.Hour,
			PasswordResetExpiry: time.Hour,
			InvitationExpiry:    7 * 24 * time.Hour,
			BCryptCost:          getEnvAsInt("BCRYPT_COST", 10),
			InsecureCookie:      getEnvAsBool("INSECURE_COOKIE", false),
		},
		Mail: MailConfig{
			Host:         getEnv("SMTP_HOST", ""),
			Port:         getEnvAsInt("SMTP_PORT", 465),
			Username:     getEnv("SMTP_USERNAME", ""),
			Password:     getEnv("SMTP_PASSWORD", ""),
			From:         getEnv("SMTP_FROM", "no-reply@localhost"),
			DialTimeout:  10 * time.Second,
			UseLogSender: getEnvAsBool("MAIL_USE_LOG_SENDER", false),
		},
		Attendance: AttendanceConfig{
			CheckInOpens:   getEnv("ATTENDANCE_CHECK_IN_OPENS", "06:00"),
			CheckInCloses:  getEnv("ATTENDANCE_CHECK_IN_CLOSES", "12:00"),
			RejectOutside:  getEnvAsBool("ATTENDANCE_REJECT_OUTSIDE_WINDOW", false),
			TimezoneOffset: getEnvAsInt("ATTENDANCE_TIMEZONE_OFFSET_MINUTES", 0),
		},
		Storage: StorageConfig{
			PayslipDir: getEnv("PAYSLIP_DIR", "./storage/payslips"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Attendance.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("attendance config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("database source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.SessionSecret) < 32 {
		return errors.New("session secret must be at least 32 characters")
	}
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return errors.New("bcrypt cost must be between 10 and 15")
	}
	return nil
}

// Durations fall back to the standard windows when the config file
// leaves them out.
func (c *SecurityConfig) ApplyDefaults() {
	if c.SessionDuration == 0 {
		c.SessionDuration = 7 * 24 * time.Hour
	}
	if c.VerificationExpiry == 0 {
		c.VerificationExpiry = 24 * time.Hour
	}
	if c.PasswordResetExpiry == 0 {
		c.PasswordResetExpiry = time.Hour
	}
	if c.InvitationExpiry == 0 {
		c.InvitationExpiry = 7 * 24 * time.Hour
	}
}

func (c *AttendanceConfig) Validate() error {
	for _, v := range []string{c.CheckInOpens, c.CheckInCloses} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("15:04", v); err != nil {
			return fmt.Errorf("invalid attendance window time %q: %w", v, err)
		}
	}
	return nil
}
