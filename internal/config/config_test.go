package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing socket.
	settings := new(Config)

	err := Validate(settings)
	require.Error(t, err)

	// Bad socket.
	settings = &Config{
		ServerAddress: "bad:address",
	}

	err = Validate(settings)
	require.Error(t, err)

	// Unknown driver.
	settings = &Config{
		ServerAddress: "127.0.0.1:0",
		Store:         StoreConfig{Driver: "mongo"},
	}

	err = Validate(settings)
	require.ErrorIs(t, err, errUnknownStoreDriver)

	// Lead time out of range.
	lead := 1440
	settings = &Config{
		ServerAddress: "127.0.0.1:0",
		LeadTime:      &lead,
	}

	require.Error(t, Validate(settings))

	// Telegram without a chat.
	settings = &Config{
		ServerAddress: "127.0.0.1:0",
		Telegram:      TelegramConfig{Enabled: true},
	}

	require.ErrorIs(t, Validate(settings), errChatIDRequired)
}

// TestValidate_FillsDefaults ensures omitted settings get their defaults.
func TestValidate_FillsDefaults(t *testing.T) {
	t.Parallel()

	settings := &Config{ServerAddress: "127.0.0.1:50051"}

	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.Equal(t, DefaultSnoozeDelay, settings.SnoozeDelay)
	require.Equal(t, DefaultRefreshInterval, settings.RefreshInterval)
	require.Equal(t, StoreDriverFile, settings.Store.Driver)
	require.Equal(t, DefaultStoreFilename, settings.Store.Path)
	require.Equal(t, DefaultTokenEnv, settings.Telegram.TokenEnv)
	require.Equal(t, 6, settings.InitialLeadTime())

	settings = &Config{ServerAddress: "127.0.0.1:50051", Store: StoreConfig{Driver: StoreDriverSQLite}}

	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultDatabaseFilename, settings.Store.Path)

	// A negative refresh interval is kept to disable the job.
	settings = &Config{ServerAddress: "127.0.0.1:50051", RefreshInterval: -time.Second}

	require.NoError(t, Validate(settings))
	require.Equal(t, -time.Second, settings.RefreshInterval)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	lead := 0
	settings := &Config{
		ServerAddress: "127.0.0.1:50051",
		Store:         StoreConfig{Driver: StoreDriverSQLite, Path: "themes.db"},
		LeadTime:      &lead,
		SnoozeDelay:   time.Minute,
		Telegram:      TelegramConfig{Enabled: true, ChatID: 42},
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings.ServerAddress, loaded.ServerAddress)
	require.Equal(t, StoreDriverSQLite, loaded.Store.Driver)
	require.Equal(t, "themes.db", loaded.Store.Path)
	require.Equal(t, 0, loaded.InitialLeadTime())
	require.Equal(t, time.Minute, loaded.SnoozeDelay)
	require.Equal(t, int64(42), loaded.Telegram.ChatID)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadEnv_PopulatesTelegramToken reads the bot token from a .env file.
func TestLoadEnv_PopulatesTelegramToken(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	name := "THEME_ALARM_TEST_TOKEN_" + filepath.Base(dir)

	require.NoError(t, os.WriteFile(envPath, []byte(name+"=secret-token\n"), DefaultFilePermissions))

	t.Cleanup(func() {
		_ = os.Unsetenv(name)
	})

	settings := &Config{
		EnvFile:  envPath,
		Telegram: TelegramConfig{TokenEnv: name},
	}

	_, err := settings.TelegramToken()
	require.ErrorIs(t, err, errTokenMissing)

	require.NoError(t, settings.LoadEnv())

	token, err := settings.TelegramToken()
	require.NoError(t, err)
	require.Equal(t, "secret-token", token)
}

// TestLoadEnv_MissingFile reports an unreadable .env file.
func TestLoadEnv_MissingFile(t *testing.T) {
	t.Parallel()

	settings := &Config{EnvFile: filepath.Join(t.TempDir(), "absent.env")}

	require.Error(t, settings.LoadEnv())
	require.NoError(t, new(Config).LoadEnv())
}
