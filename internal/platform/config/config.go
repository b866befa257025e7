package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config/config.yaml"

	ModeConsole = "console"
	ModeServe   = "serve"

	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// console で受け付ける入出力エンコーディング
var Encodings = []string{"utf-8", "cp866", "windows-1251", "koi8-r"}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"` // sqlite のみ
	DSN      string `yaml:"dsn"`  // 指定があればそのまま使う
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`

	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
}

type HTTPConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type ConsoleConfig struct {
	Encoding string `yaml:"encoding"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

type Config struct {
	Version string         `yaml:"version"`
	Mode    string         `yaml:"mode"`
	DB      DatabaseConfig `yaml:"database"`
	HTTP    HTTPConfig     `yaml:"http"`
	Console ConsoleConfig  `yaml:"console"`
	Log     LogConfig      `yaml:"log"`
}

// Default は設定ファイルが無い場合の値(カレントの library.db を使う)
func Default() *Config {
	return &Config{
		Version: "1",
		Mode:    ModeConsole,
		DB: DatabaseConfig{
			Driver:       DriverSQLite,
			Path:         "library.db",
			MaxOpenConns: 20,
			MaxIdleConns: 5,
		},
		HTTP:    HTTPConfig{Addr: ":8080"},
		Console: ConsoleConfig{Encoding: "utf-8"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// LoadEnv reads KEY=VALUE pairs from the given dotenv files into the process
// environment. Missing files are ignored, variables already set win.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// LoadConfig reads the yaml file on top of Default, applies LIBRARY_* environment
// overrides and validates the result. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	buf, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"LIBRARY_MODE":        &c.Mode,
		"LIBRARY_DB_DRIVER":   &c.DB.Driver,
		"LIBRARY_DB_PATH":     &c.DB.Path,
		"LIBRARY_DB_DSN":      &c.DB.DSN,
		"LIBRARY_DB_HOST":     &c.DB.Host,
		"LIBRARY_DB_USER":     &c.DB.Username,
		"LIBRARY_DB_PASSWORD": &c.DB.Password,
		"LIBRARY_DB_NAME":     &c.DB.DBName,
		"LIBRARY_HTTP_ADDR":   &c.HTTP.Addr,
		"LIBRARY_LOG_LEVEL":   &c.Log.Level,
		"LIBRARY_ENCODING":    &c.Console.Encoding,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("LIBRARY_DB_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LIBRARY_DB_PORT: %w", err)
		}
		c.DB.Port = port
	}
	return nil
}

func (c *Config) Validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	c.Console.Encoding = strings.ToLower(strings.TrimSpace(c.Console.Encoding))

	switch c.Mode {
	case ModeConsole, ModeServe:
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", c.Mode, ModeConsole, ModeServe)
	}

	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" && c.DB.DSN == "" {
			return errors.New("database.path is required for sqlite")
		}
	case DriverMySQL, DriverPostgres:
		if c.DB.DSN == "" && (c.DB.Host == "" || c.DB.DBName == "") {
			return fmt.Errorf("database.host and database.dbname are required for %s", c.DB.Driver)
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.DB.Driver)
	}

	if c.Console.Encoding == "" {
		c.Console.Encoding = "utf-8"
	}
	known := false
	for _, e := range Encodings {
		if e == c.Console.Encoding {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown console encoding %q", c.Console.Encoding)
	}
	return nil
}
