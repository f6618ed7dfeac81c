package taskmaster

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	LogLevel    string
	LogPath     string
	DateFormat  string
	DevMode     bool
}

const (
	KeyDatabaseURL = "TASKMASTER_DB_URL"
	KeyLogLevel    = "TASKMASTER_LOG_LEVEL"
	KeyLogPath     = "TASKMASTER_LOG_PATH"
	KeyDateFormat  = "TASKMASTER_DATE_FORMAT"
	KeyDevMode     = "TASKMASTER_DEV_MODE"
)

const (
	DefaultLogLevel   = "WARN"
	DefaultDateFormat = "Jan 02"
)

var (
	userHome, _        = os.UserHomeDir()
	DefaultDatabaseURL = path.Join(userHome, ".taskmaster", "taskmaster.db")
	DefaultLogPath     = path.Join(userHome, ".taskmaster", "taskmaster.log")
)

// DefaultConfFile is the conf file location under the user config dir.
func DefaultConfFile() string {
	cfgDir, _ := os.UserConfigDir()
	return path.Join(cfgDir, "taskmaster", "taskmaster.conf")
}

// LoadConfig resolves the config from the environment, then confFile, then
// defaults. confFile is created with default values if it does not exist.
func LoadConfig(confFile string) (Config, error) {
	confFromEnv := Config{
		DatabaseURL: os.Getenv(KeyDatabaseURL),
		LogLevel:    os.Getenv(KeyLogLevel),
		LogPath:     os.Getenv(KeyLogPath),
		DateFormat:  os.Getenv(KeyDateFormat),
		DevMode:     os.Getenv(KeyDevMode) != "",
	}

	if confFromEnv.DevMode {
		confFromEnv.LogLevel = "DEBUG"
		confFromEnv.DatabaseURL = path.Join(os.TempDir(), "taskmaster-dev.db")
		confFromEnv.LogPath = path.Join(os.TempDir(), "taskmaster-dev.log")
		f, err := os.OpenFile(confFromEnv.DatabaseURL, os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return Config{}, fmt.Errorf("failed to reset dev database: %w", err)
		}
		_ = f.Close()
	}

	if _, err := os.Stat(confFile); err != nil {
		if err := writeDefaultConf(confFile); err != nil {
			return Config{}, err
		}
	}
	fileEnv, err := godotenv.Read(confFile)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read conf file %s: %w", confFile, err)
	}
	confFromFile := Config{
		DatabaseURL: fileEnv[KeyDatabaseURL],
		LogLevel:    fileEnv[KeyLogLevel],
		LogPath:     fileEnv[KeyLogPath],
		DateFormat:  fileEnv[KeyDateFormat],
	}

	return Config{
		DatabaseURL: coalesce(confFromEnv.DatabaseURL, confFromFile.DatabaseURL, DefaultDatabaseURL),
		LogLevel:    coalesce(confFromEnv.LogLevel, confFromFile.LogLevel, DefaultLogLevel),
		LogPath:     coalesce(confFromEnv.LogPath, confFromFile.LogPath, DefaultLogPath),
		DateFormat:  coalesce(confFromEnv.DateFormat, confFromFile.DateFormat, DefaultDateFormat),
		DevMode:     confFromEnv.DevMode,
	}, nil
}

func writeDefaultConf(confFile string) error {
	if err := os.MkdirAll(path.Dir(confFile), 0o744); err != nil {
		return fmt.Errorf("failed to create conf dir: %w", err)
	}
	content, err := godotenv.Marshal(map[string]string{
		KeyDatabaseURL: DefaultDatabaseURL,
		KeyLogLevel:    DefaultLogLevel,
		KeyLogPath:     DefaultLogPath,
		KeyDateFormat:  DefaultDateFormat,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(confFile, []byte(content+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write default conf file: %w", err)
	}
	return nil
}

func coalesce(args ...string) string {
	for _, s := range args {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
