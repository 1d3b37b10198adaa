package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
env:
  serviceName: careauth
  log:
    level: info
http:
  port: 9090
storage:
  driver: Memory
auth:
  bcryptCost: 11
  concealAccountExistence: false
pubsub:
  provider: local
  localEndpoint: http://localhost:8085/push
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0o600))

	return dir
}

func TestLoadWithEnv_ReadsYAMLAndEnvOverrides(t *testing.T) {
	t.Chdir(writeConfig(t, "careauth-test", testYAML))
	t.Setenv("AUTH_BCRYPTCOST", "12")
	t.Setenv("AUTH_CONCEALACCOUNTEXISTENCE", "true")

	cfg, err := LoadWithEnv[Config]("careauth-test")
	require.NoError(t, err)

	assert.Equal(t, "careauth", cfg.Env.ServiceName)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.True(t, cfg.Auth.ConcealAccountExistence)
	require.NotNil(t, cfg.PubSub)
	assert.Equal(t, "local", cfg.PubSub.Provider)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("does-not-exist")

	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Storage: &StorageConfig{Driver: " Memory "}}

	require.NoError(t, cfg.applyDefaults())

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, defaultBcryptCost, cfg.Auth.BcryptCost)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Auth.MaxConcurrentHashes)
	assert.False(t, cfg.Auth.ConcealAccountExistence)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Storage: &StorageConfig{Driver: StorageDriverMemory},
		Auth:    &AuthConfig{BcryptCost: 12, MaxConcurrentHashes: 3},
	}
	cfg.HTTP.MaxRequestBodySize = "1MB"

	require.NoError(t, cfg.applyDefaults())

	assert.Equal(t, "1MB", cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 3, cfg.Auth.MaxConcurrentHashes)
}

func TestApplyDefaults_RejectsBadStorage(t *testing.T) {
	err := (&Config{Storage: &StorageConfig{Driver: "mongodb"}}).applyDefaults()
	assert.Error(t, err)

	// postgres is the default driver and needs its section
	err = (&Config{}).applyDefaults()
	assert.Error(t, err)
}
