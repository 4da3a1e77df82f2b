package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8081", c.ListenAddr)
	assert.Equal(t, BackendMemory, c.RepositoryBackend)
	assert.Equal(t, BackendMemory, c.BlobBackend)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 5*time.Minute, c.TokenTTL)
	assert.Equal(t, int64(10<<30), c.DefaultStorage)
	assert.Equal(t, "zap", c.LogFormat)
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	err := parseFlags(cfg, []string{
		"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
		"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		"-repository", "postgres", "-blobs", "s3", "-token-ttl", "1m", "-nonce-ttl", "2m",
		"-storage", "100", "-transfer", "200", "-log", "json", "-unknown", "x",
	})
	require.NoError(t, err)

	want := &Config{
		ListenAddr:        "127.0.0.1:9090",
		RepositoryBackend: "postgres",
		DatabaseDSN:       "db",
		BlobBackend:       "s3",
		S3RootUser:        "user",
		S3RootPassword:    "password",
		S3Bucket:          "bucket",
		S3Region:          "us-west-1",
		S3BaseEndpoint:    "http://endpoint",
		SecretKey:         "secret",
		TokenTTL:          time.Minute,
		NonceTTL:          2 * time.Minute,
		DefaultStorage:    100,
		DefaultTransfer:   200,
		LogFormat:         "json",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"listen_addr":        ":9999",
		"repository_backend": "postgres",
		"token_ttl":          "30s",
		"nonce_ttl":          60_000_000_000,
		"default_storage":    42,
	})

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseJson(&cfg, []string{"-config", path}))

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "postgres", cfg.RepositoryBackend)
	assert.Equal(t, 30*time.Second, cfg.TokenTTL)
	assert.Equal(t, time.Minute, cfg.NonceTTL)
	assert.Equal(t, int64(42), cfg.DefaultStorage)
	assert.Equal(t, "secretKey", cfg.SecretKey)
}

func TestLoadConfig(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"listen_addr": ":1", "secret_key": "json"})

	cfg, err := LoadConfig([]string{"-c", path, "-a", ":2"})
	require.NoError(t, err)
	assert.Equal(t, ":2", cfg.ListenAddr)
	assert.Equal(t, "json", cfg.SecretKey)

	_, err = LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)

	_, err = LoadConfig([]string{"-storage", "lots"})
	assert.Error(t, err)
}

func TestLoadConfig_RandomSecret(t *testing.T) {
	a, err := LoadConfig([]string{"-s="})
	require.NoError(t, err)
	b, err := LoadConfig([]string{"-s="})
	require.NoError(t, err)

	assert.Len(t, a.SecretKey, 64)
	assert.NotEqual(t, a.SecretKey, b.SecretKey)
}
