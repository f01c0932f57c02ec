package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
)

// Config holds the settings shared by the theme alarm binaries.
type Config struct {
	// ServerAddress is the gRPC server address for alarm service connections.
	ServerAddress string `yaml:"server_addr"`
	// Store selects and configures the theme store.
	Store StoreConfig `yaml:"store"`
	// LeadTime is the initial number of minutes a pre-alert fires early.
	// Nil means the default.
	LeadTime *int `yaml:"lead_time,omitempty"`
	// SnoozeDelay is the time a snoozed alert waits before firing again.
	SnoozeDelay time.Duration `yaml:"snooze_delay"`
	// RefreshInterval is the period of the background rebuild. Negative disables it.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum log level, empty keeps the current one.
	LogLevel string `yaml:"log_level,omitempty"`
	// EnvFile is an optional .env file loaded into the process environment.
	EnvFile string `yaml:"env_file,omitempty"`
	// Telegram configures the Telegram notifier.
	Telegram TelegramConfig `yaml:"telegram"`
}

// StoreConfig describes where themes are persisted.
type StoreConfig struct {
	// Driver is either StoreDriverFile or StoreDriverSQLite.
	Driver string `yaml:"driver"`
	// Path is the JSON document or SQLite database location.
	Path string `yaml:"path"`
	// RestoreDefaults re-adds deleted seed themes on every load.
	RestoreDefaults bool `yaml:"restore_defaults"`
}

// TelegramConfig describes the Telegram notifier.
type TelegramConfig struct {
	// Enabled turns the notifier on.
	Enabled bool `yaml:"enabled"`
	// ChatID is the chat receiving alerts.
	ChatID int64 `yaml:"chat_id"`
	// TokenEnv names the environment variable holding the bot token.
	TokenEnv string `yaml:"token_env"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "theme-alarm-settings.yaml"

	// DefaultStoreFilename is the default filename for the theme JSON document.
	DefaultStoreFilename = "theme-alarm-themes.json"

	// DefaultDatabaseFilename is the default filename for the theme SQLite database.
	DefaultDatabaseFilename = "theme-alarm-themes.db"

	// StoreDriverFile keeps themes in a JSON document.
	StoreDriverFile = "file"

	// StoreDriverSQLite keeps themes in an SQLite database.
	StoreDriverSQLite = "sqlite"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultSnoozeDelay is the default snooze duration.
	DefaultSnoozeDelay = 5 * time.Minute

	// DefaultRefreshInterval is the default period of the background rebuild.
	DefaultRefreshInterval = time.Hour

	// DefaultTokenEnv is the default variable name of the Telegram bot token.
	DefaultTokenEnv = "THEME_ALARM_TELEGRAM_TOKEN"

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errUnknownStoreDriver is returned for an unsupported store driver.
	errUnknownStoreDriver = errors.New("unknown store driver")
	// errChatIDRequired is returned when Telegram is enabled without a chat.
	errChatIDRequired = errors.New("telegram chat_id must be provided")
	// errTokenMissing is returned when the bot token variable is empty.
	errTokenMissing = errors.New("telegram token is not set")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and fills in defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.SnoozeDelay <= 0 {
		settings.SnoozeDelay = DefaultSnoozeDelay
	}

	if settings.RefreshInterval == 0 {
		settings.RefreshInterval = DefaultRefreshInterval
	}

	if settings.LeadTime != nil {
		if err := domain.ValidateLeadTime(*settings.LeadTime); err != nil {
			return fmt.Errorf("invalid lead_time: %w", err)
		}
	}

	switch settings.Store.Driver {
	case "":
		settings.Store.Driver = StoreDriverFile
	case StoreDriverFile, StoreDriverSQLite:
	default:
		return fmt.Errorf("%q: %w", settings.Store.Driver, errUnknownStoreDriver)
	}

	if settings.Store.Path == "" {
		settings.Store.Path = DefaultStoreFilename
		if settings.Store.Driver == StoreDriverSQLite {
			settings.Store.Path = DefaultDatabaseFilename
		}
	}

	if settings.Telegram.TokenEnv == "" {
		settings.Telegram.TokenEnv = DefaultTokenEnv
	}

	if settings.Telegram.Enabled && settings.Telegram.ChatID == 0 {
		return errChatIDRequired
	}

	return nil
}

// InitialLeadTime returns the configured lead time or the default one.
func (c *Config) InitialLeadTime() int {
	if c.LeadTime == nil {
		return domain.DefaultLeadTime
	}

	return *c.LeadTime
}

// LoadEnv loads the configured .env file without overriding variables
// that are already set. It does nothing when no file is configured.
func (c *Config) LoadEnv() error {
	if c.EnvFile == "" {
		return nil
	}

	if err := godotenv.Load(filepath.Clean(c.EnvFile)); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	return nil
}

// TelegramToken returns the bot token from the configured environment variable.
func (c *Config) TelegramToken() (string, error) {
	name := c.Telegram.TokenEnv
	if name == "" {
		name = DefaultTokenEnv
	}

	token := os.Getenv(name)
	if token == "" {
		return "", fmt.Errorf("%s: %w", name, errTokenMissing)
	}

	return token, nil
}
