package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		expected  *Config
		expectErr bool
	}{
		{
			name: "all flags",
			args: []string{
				"-bridge", "http://localhost:8081", "-concurrency", "3", "-timeout", "5s",
				"-key", "k.key", "-key-passphrase", "kp", "-keyring", "ring.bolt",
				"-keyring-backend", "bolt", "-keyring-passphrase", "rp", "-temp", "/tmp/x",
				"-email", "a@b.c", "-password", "pw", "-register", "-bucket", "B", "-upload-bucket", "b1",
				"-upload-file", "f.txt", "-log", "zap",
			},
			expected: &Config{
				BridgeURL: "http://localhost:8081", Concurrency: 3, RequestTimeout: 5 * time.Second,
				KeyPath: "k.key", KeyPassphrase: "kp", KeyRingPath: "ring.bolt",
				KeyRingBackend: "bolt", KeyRingPassphrase: "rp", TempDir: "/tmp/x",
				Email: "a@b.c", Password: "pw", Register: true, BucketName: "B", UploadBucketID: "b1",
				UploadFile: "f.txt", LogFormat: "zap",
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"-x", "1", "-upload-file=f.txt", "-c", "cfg.json"},
			expected: &Config{UploadFile: "f.txt"},
		},
		{name: "bad duration", args: []string{"-timeout", "soon"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
