package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/taskhub/taskhub/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction

	defaultAccessTokenTTL  = 5 * time.Minute
	defaultRefreshTokenTTL = 60 * time.Minute
	defaultDialogThreshold = 30 * time.Second
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the taskhub service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key
	// Required: access and refresh tokens are signed with it. Startup fails
	// without one
	SecretKey string

	// Token lifecycle durations
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Remaining session time at which clients are told to show the
	// "session is about to expire" dialog
	DialogThreshold time.Duration

	// Window after nominal expiry during which an explicit extend is still
	// honored. Zero means "same as DialogThreshold"
	RotationGrace time.Duration

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:        defaultLoggingLevel,
		ListenAddr:      defaultListenAddr,
		Environment:     defaultEnvironment,
		AccessTokenTTL:  defaultAccessTokenTTL,
		RefreshTokenTTL: defaultRefreshTokenTTL,
		DialogThreshold: defaultDialogThreshold,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}
	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = d
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":            setString(&c.ListenAddr),
		"DATABASE_URI":           setString(&c.DatabaseDSN),
		"SECRET_KEY":             setString(&c.SecretKey),
		"LOG_LEVEL":              setString(&c.LogLevel),
		"ENVIRONMENT":            setString(&c.Environment),
		"ACCESS_TOKEN_LIFETIME":  setDuration(&c.AccessTokenTTL),
		"REFRESH_TOKEN_LIFETIME": setDuration(&c.RefreshTokenTTL),
		"DIALOG_THRESHOLD":       setDuration(&c.DialogThreshold),
		"ROTATION_GRACE":         setDuration(&c.RotationGrace),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("taskhub", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.DurationVar(&c.AccessTokenTTL, "access-lifetime", c.AccessTokenTTL, "Access token lifetime")
	fs.DurationVar(&c.RefreshTokenTTL, "refresh-lifetime", c.RefreshTokenTTL, "Refresh session lifetime")
	fs.DurationVar(&c.DialogThreshold, "dialog-threshold", c.DialogThreshold, "Remaining time that triggers the expiry warning")
	fs.DurationVar(&c.RotationGrace, "rotation-grace", c.RotationGrace, "Extend grace window after expiry (defaults to dialog threshold)")

	return fs.Parse(args)
}

// Validate the parts that have no safe default
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("secret key is required, set SECRET_KEY or pass --secret-key")
	}
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is required, set DATABASE_URI or pass --database")
	}
	return nil
}
