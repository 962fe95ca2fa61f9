package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppPort string `env:"PORT" envDefault:"5000"`
	AppURL  string `env:"APP_URL" envDefault:"http://localhost:5173"`

	JWTSecret     string        `env:"SECRET_KEY,required"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"1h"`

	DB    DBConfig
	SMTP  SMTPConfig
	Reset ResetConfig
	Log   LogConfig

	UploadDir   string   `env:"UPLOAD_DIR" envDefault:"uploads"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

type DBConfig struct {
	Driver         string `env:"DB_DRIVER" envDefault:"mysql"`
	Host           string `env:"DB_HOST" envDefault:"localhost"`
	Port           string `env:"DB_PORT" envDefault:"3306"`
	User           string `env:"DB_USER" envDefault:"root"`
	Password       string `env:"DB_PASSWORD"`
	Name           string `env:"DB_NAME" envDefault:"sayabantu"`
	DSN            string `env:"DB_DSN"`
	MaxOpenConns   int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	ConnectRetries int    `env:"DB_CONNECT_RETRIES" envDefault:"5"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT" envDefault:"465"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM"`
}

// Sender returns the From header, falling back to the SMTP user.
func (s SMTPConfig) Sender() string {
	if s.From != "" {
		return s.From
	}
	return fmt.Sprintf("Support <%s>", s.Username)
}

// Enabled reports whether enough is configured to attempt delivery.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Port != 0 && s.Username != ""
}

// ImplicitTLS is true for SMTPS (port 465); other ports use STARTTLS.
func (s SMTPConfig) ImplicitTLS() bool {
	return s.Port == 465
}

func (s SMTPConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type ResetConfig struct {
	TokenTTL      time.Duration `env:"RESET_TOKEN_TTL" envDefault:"30m"`
	RatePerMinute float64       `env:"RESET_RATE_PER_MINUTE" envDefault:"5"`
	RateBurst     int           `env:"RESET_RATE_BURST" envDefault:"5"`
	PurgeSchedule string        `env:"RESET_PURGE_SCHEDULE" envDefault:"@every 1h"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
	Path   string `env:"LOG_PATH"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	// Try to load .env file but don't fail if it doesn't exist
	_ = godotenv.Load()

	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver)
	}
	if c.DB.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be > 0")
	}
	if c.Reset.TokenTTL <= 0 {
		return fmt.Errorf("RESET_TOKEN_TTL must be > 0")
	}
	if c.JWTExpiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be > 0")
	}
	c.AppURL = strings.TrimRight(c.AppURL, "/")
	return nil
}

// DataSourceName returns the DSN for the configured driver. DB_DSN wins
// when set.
func (c DBConfig) DataSourceName() string {
	if c.DSN != "" {
		return c.DSN
	}

	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.User, c.Password, c.Name)
	case DriverSQLite:
		return c.Name + ".db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	default:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, c.Port)
		mc.DBName = c.Name
		mc.ParseTime = true
		// UPDATE reports matched rows, so an unchanged row is not a 404.
		mc.ClientFoundRows = true
		mc.Loc = time.UTC
		return mc.FormatDSN()
	}
}
