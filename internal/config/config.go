package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Record backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Default record locations when DataFile is left empty.
const (
	DefaultDataFile     = "students.dat"
	DefaultDatabaseFile = "students.db"
)

type Config struct {
	UsersFile     string    `yaml:"users_file"`
	DataFile      string    `yaml:"data_file"`
	RecordBackend string    `yaml:"record_backend"`
	AtomicWrites  bool      `yaml:"atomic_writes"`
	Log           LogConfig `yaml:"log"`
}

type LogConfig struct {
	ErrorFile  string `yaml:"error_file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

func Default() Config {
	return Config{
		UsersFile:     "users.txt",
		RecordBackend: BackendFile,
		AtomicWrites:  true,
		Log: LogConfig{
			ErrorFile:  "errors.log",
			Level:      "error",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load builds the configuration from defaults, an optional .env file in the
// working directory, an optional YAML file at path and STUDENTBOOK_* variables,
// later sources overriding earlier ones.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.UsersFile = getEnv("STUDENTBOOK_USERS_FILE", cfg.UsersFile)
	cfg.DataFile = getEnv("STUDENTBOOK_DATA_FILE", cfg.DataFile)
	cfg.RecordBackend = getEnv("STUDENTBOOK_RECORD_BACKEND", cfg.RecordBackend)
	cfg.AtomicWrites = getEnvBool("STUDENTBOOK_ATOMIC_WRITES", cfg.AtomicWrites)
	cfg.Log.ErrorFile = getEnv("STUDENTBOOK_ERROR_LOG", cfg.Log.ErrorFile)
	cfg.Log.Level = getEnv("STUDENTBOOK_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.MaxSizeMB = getEnvInt("STUDENTBOOK_LOG_MAX_SIZE_MB", cfg.Log.MaxSizeMB)
	cfg.Log.MaxBackups = getEnvInt("STUDENTBOOK_LOG_MAX_BACKUPS", cfg.Log.MaxBackups)
	cfg.Log.Compress = getEnvBool("STUDENTBOOK_LOG_COMPRESS", cfg.Log.Compress)
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.RecordBackend {
	case BackendFile, BackendSQLite, BackendBolt:
	default:
		return fmt.Errorf("unknown record backend %q", c.RecordBackend)
	}
	if c.UsersFile == "" {
		return errors.New("users file must be set")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

// DataPath is the record location: DataFile when set, otherwise the default
// file for the configured backend.
func (c Config) DataPath() string {
	if c.DataFile != "" {
		return c.DataFile
	}
	switch c.RecordBackend {
	case BackendSQLite, BackendBolt:
		return DefaultDatabaseFile
	default:
		return DefaultDataFile
	}
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return def
}
