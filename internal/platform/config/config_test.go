package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_LoadConfig_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, ModeConsole, cfg.Mode)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "library.db", cfg.DB.Path)
	assert.Equal(t, "utf-8", cfg.Console.Encoding)
}

func Test_LoadConfig_ReadsYaml(t *testing.T) {
	path := writeFile(t, "config.yaml", `
version: "1"
mode: serve
database:
  driver: mysql
  host: db.local
  port: 3306
  user: lib
  password: secret
  dbname: library
http:
  addr: ":9000"
  cors_origins: ["http://localhost:3000"]
console:
  encoding: CP866
log:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, ModeServe, cfg.Mode)
	assert.Equal(t, DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.Equal(t, "library", cfg.DB.DBName)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "cp866", cfg.Console.Encoding)
	assert.Equal(t, "json", cfg.Log.Format)
}

func Test_LoadConfig_RejectsBrokenYaml(t *testing.T) {
	path := writeFile(t, "config.yaml", "mode: [serve")

	_, err := LoadConfig(path)

	assert.Error(t, err)
}

func Test_ApplyEnv_OverridesFileValues(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"LIBRARY_MODE":      "serve",
		"LIBRARY_DB_DRIVER": "postgres",
		"LIBRARY_DB_HOST":   "pg",
		"LIBRARY_DB_PORT":   "5433",
		"LIBRARY_DB_NAME":   "library",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	require.NoError(t, cfg.applyEnv(lookup))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ModeServe, cfg.Mode)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "pg", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
}

func Test_ApplyEnv_RejectsNonNumericPort(t *testing.T) {
	cfg := Default()
	lookup := func(k string) (string, bool) {
		if k == "LIBRARY_DB_PORT" {
			return "abc", true
		}
		return "", false
	}

	assert.Error(t, cfg.applyEnv(lookup))
}

func Test_Validate(t *testing.T) {
	cases := map[string]func(c *Config){
		"unknown mode":     func(c *Config) { c.Mode = "gui" },
		"unknown driver":   func(c *Config) { c.DB.Driver = "oracle" },
		"sqlite no path":   func(c *Config) { c.DB.Path = "" },
		"mysql no host":    func(c *Config) { c.DB.Driver = DriverMySQL },
		"unknown encoding": func(c *Config) { c.Console.Encoding = "ebcdic" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func Test_LoadEnv_IgnoresMissingFiles(t *testing.T) {
	path := writeFile(t, ".env", "LIBRARY_TEST_ONLY_VALUE=from-dotenv\n")
	t.Cleanup(func() { _ = os.Unsetenv("LIBRARY_TEST_ONLY_VALUE") })

	err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"), path)

	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", os.Getenv("LIBRARY_TEST_ONLY_VALUE"))
}
