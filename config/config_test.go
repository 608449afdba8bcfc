package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, DefaultCourses, cfg.Catalog.Courses)
	assert.Equal(t, DefaultLocations, cfg.Catalog.Locations)
	assert.Equal(t, "none", cfg.Notify.Driver)
	assert.Equal(t, 10, cfg.Storage.BcryptCost)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestDefault_EnvOverrides(t *testing.T) {
	t.Run("invalid level is an error", func(t *testing.T) {
		t.Setenv("STUDYGROUP_LOGGING_LEVEL", "verbose")

		var err error
		assert.NotPanics(t, func() { _, err = Default() })
		assert.ErrorContains(t, err, "invalid config")
	})

	t.Run("sqlite without dsn", func(t *testing.T) {
		t.Setenv("STUDYGROUP_STORAGE_DRIVER", "sqlite")

		cfg, err := Default()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Storage.Driver)
		assert.Empty(t, cfg.Storage.DSN)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads file and keeps defaults for missing keys", func(t *testing.T) {
		path := writeConfig(t, `
[logging]
level = "debug"
format = "json"

[catalog]
courses = ["CS3377"]
locations = ["ECSW"]

[storage]
driver = "sqlite"
dsn = "file::memory:"
bcrypt_cost = 4
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, "stdout", cfg.Logging.Output)
		assert.Equal(t, []string{"CS3377"}, cfg.Catalog.Courses)
		assert.Equal(t, []string{"ECSW"}, cfg.Catalog.Locations)
		assert.Equal(t, "sqlite", cfg.Storage.Driver)
		assert.Equal(t, 4, cfg.Storage.BcryptCost)
		assert.Equal(t, int64(1), cfg.Snowflake.WorkerID)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "[logging]\nlevel = \"warn\"\n")
		t.Setenv("STUDYGROUP_LOGGING_LEVEL", "error")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Logging.Level)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("sqlite file without dsn", func(t *testing.T) {
		path := writeConfig(t, "[storage]\ndriver = \"sqlite\"\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Storage.Driver)
		assert.Empty(t, cfg.Storage.DSN)
	})

	t.Run("postgres without dsn is rejected", func(t *testing.T) {
		path := writeConfig(t, "[storage]\ndriver = \"postgres\"\n")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("unknown storage driver is rejected", func(t *testing.T) {
		path := writeConfig(t, "[storage]\ndriver = \"mongo\"\n")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("file output requires a path", func(t *testing.T) {
		path := writeConfig(t, "[logging]\noutput = \"file\"\n")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestValidate_Notify(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Notify.Driver = "kafka"
	cfg.Notify.Kafka.Brokers = nil
	assert.Error(t, cfg.Validate())

	cfg.Notify.Kafka.Brokers = []string{"127.0.0.1:9092"}
	assert.NoError(t, cfg.Validate())

	cfg.Notify.Driver = "redis"
	cfg.Notify.Redis.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_Snowflake(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Snowflake.WorkerID = 32
	assert.Error(t, cfg.Validate())

	cfg.Snowflake.WorkerID = 31
	cfg.Snowflake.DatacenterID = 31
	assert.NoError(t, cfg.Validate())
}
