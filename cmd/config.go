package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"orderdesk/internal/core/application/session"
	"orderdesk/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process configuration, read from the environment.
type Config struct {
	HTTPPort string `mapstructure:"HTTP_PORT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSslMode  string `mapstructure:"DB_SSLMODE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	AdminID           string        `mapstructure:"ADMIN_ID"`
	UndoWindow        time.Duration `mapstructure:"UNDO_WINDOW"`
	PollInterval      time.Duration `mapstructure:"POLL_INTERVAL"`
	CoalesceTick      time.Duration `mapstructure:"COALESCE_TICK"`
	ReconnectDelay    time.Duration `mapstructure:"RECONNECT_DELAY"`
	TicketRetention   time.Duration `mapstructure:"TICKET_RETENTION"`
	RemoteConcurrency int           `mapstructure:"REMOTE_CONCURRENCY"`
	RedisPingInterval time.Duration `mapstructure:"REDIS_PING_INTERVAL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// LoadConfig reads an optional .env file at envFile, then the environment.
// Unset keys keep their defaults.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := session.DefaultConfig("")

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "orderdesk")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ADMIN_ID", "")
	v.SetDefault("UNDO_WINDOW", defaults.UndoWindow)
	v.SetDefault("POLL_INTERVAL", defaults.PollInterval)
	v.SetDefault("COALESCE_TICK", defaults.CoalesceTick)
	v.SetDefault("RECONNECT_DELAY", defaults.ReconnectDelay)
	v.SetDefault("TICKET_RETENTION", defaults.TicketRetention)
	v.SetDefault("REMOTE_CONCURRENCY", defaults.RemoteConcurrency)
	v.SetDefault("REDIS_PING_INTERVAL", 2*time.Second)
	v.SetDefault("LOG_LEVEL", "info")
}

// Validate checks the settings the session does not check itself.
func (c Config) Validate() error {
	var problems []error
	if c.HTTPPort == "" {
		problems = append(problems, errs.NewValueIsRequiredError("HTTP_PORT"))
	}
	if c.RedisAddr == "" {
		problems = append(problems, errs.NewValueIsRequiredError("REDIS_ADDR"))
	}
	problems = append(problems, c.SessionConfig().Validate())
	return errors.Join(problems...)
}

// DSN returns the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// SessionConfig returns the desk session tunables.
func (c Config) SessionConfig() session.Config {
	return session.Config{
		AdminID:           c.AdminID,
		UndoWindow:        c.UndoWindow,
		PollInterval:      c.PollInterval,
		CoalesceTick:      c.CoalesceTick,
		ReconnectDelay:    c.ReconnectDelay,
		TicketRetention:   c.TicketRetention,
		RemoteConcurrency: c.RemoteConcurrency,
	}
}
