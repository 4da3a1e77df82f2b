package config

import (
	"time"

	"github.com/dmitrijs2005/bridgekeeper/internal/client/repositories"
	"github.com/dmitrijs2005/bridgekeeper/internal/logging"
)

// Config holds runtime settings for the bridgekeeper client.
//
// Fields:
//   - BridgeURL: base URL of the bridge API.
//   - Concurrency: in-flight request limit of a session.
//   - RequestTimeout: bound on a single request, body transfer included.
//   - KeyPath, KeyPassphrase: credential file and its optional passphrase.
//   - KeyRingPath, KeyRingBackend, KeyRingPassphrase: the local key ring.
//   - TempDir: where encrypted artifacts are staged before upload.
//   - Email, Password: account used to bootstrap a key pair.
//   - Register: create the account before running the workflow.
//   - BucketName: name of the bucket created and removed by the workflow.
//   - UploadBucketID, UploadFile: target of the upload step.
//   - LogFormat: text, json or zap.
type Config struct {
	BridgeURL      string
	Concurrency    int
	RequestTimeout time.Duration

	KeyPath       string
	KeyPassphrase string

	KeyRingPath       string
	KeyRingBackend    string
	KeyRingPassphrase string

	TempDir string

	Email    string
	Password string
	Register bool

	BucketName     string
	UploadBucketID string
	UploadFile     string

	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BridgeURL = "https://api.storj.io"
	c.Concurrency = 6
	c.RequestTimeout = 30 * time.Second
	c.KeyPath = "./private.key"
	c.KeyRingPath = "./keyring.db"
	c.KeyRingBackend = repositories.BackendSQLite
	c.KeyRingPassphrase = "keypass"
	c.TempDir = "./temp"
	c.BucketName = "TestBucket"
	c.LogFormat = logging.FormatText
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags from args. Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
