package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_ENV", "value")
	assert.Equal(t, "value", getEnv("TEST_ENV", "default"))
	assert.Equal(t, "default", getEnv("MISSING_ENV", "default"))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("MONGODB_URI", "mongodb://test:27017")
	t.Setenv("MONGODB_DATABASE", "ledger_test")
	t.Setenv("KAFKA_BROKERS", "kafka:9092")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ServerAddr)
	assert.Equal(t, "mongodb://test:27017", cfg.MongoDB.URI)
	assert.Equal(t, "ledger_test", cfg.MongoDB.Database)
	assert.Equal(t, "kafka:9092", cfg.Kafka.Brokers[0])
	assert.Equal(t, serviceName, cfg.Kafka.ClientID)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8021", cfg.ServerAddr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "supplier_ledger_db", cfg.MongoDB.Database)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":8100"
mongodb:
  uri: mongodb://file:27017
  database: ledger_file
  replicaSet: rs0
kafka:
  brokers:
    - kafka1:9092
    - kafka2:9092
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8100", cfg.ServerAddr)
	assert.Equal(t, "mongodb://file:27017", cfg.MongoDB.URI)
	assert.Equal(t, "ledger_file", cfg.MongoDB.Database)
	assert.Equal(t, "rs0", cfg.MongoDB.ReplicaSet)
	assert.Equal(t, []string{"kafka1:9092", "kafka2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mongodb:\n  database: from_file\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MONGODB_DATABASE", "from_env")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.MongoDB.Database)
}

func TestLoadConfigFileMissing(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestLoadConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := loadConfig()
	assert.Error(t, err)
}
