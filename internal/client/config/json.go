package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bridgekeeper/internal/flagx"
	"github.com/dmitrijs2005/bridgekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so the request timeout can be "30s" or nanoseconds.
type JsonConfig struct {
	BridgeURL         string         `json:"bridge_url"`
	Concurrency       int            `json:"concurrency"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	KeyPath           string         `json:"key_path"`
	KeyPassphrase     string         `json:"key_passphrase"`
	KeyRingPath       string         `json:"keyring_path"`
	KeyRingBackend    string         `json:"keyring_backend"`
	KeyRingPassphrase string         `json:"keyring_passphrase"`
	TempDir           string         `json:"temp_dir"`
	Email             string         `json:"email"`
	Password          string         `json:"password"`
	Register          bool           `json:"register"`
	BucketName        string         `json:"bucket_name"`
	UploadBucketID    string         `json:"upload_bucket_id"`
	UploadFile        string         `json:"upload_file"`
	LogFormat         string         `json:"log_format"`
}

// parseJson overlays Config with the non-empty values of the JSON file
// given with -c or -config. Without either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.BridgeURL, jc.BridgeURL)
	if jc.Concurrency != 0 {
		cfg.Concurrency = jc.Concurrency
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setString(&cfg.KeyPath, jc.KeyPath)
	setString(&cfg.KeyPassphrase, jc.KeyPassphrase)
	setString(&cfg.KeyRingPath, jc.KeyRingPath)
	setString(&cfg.KeyRingBackend, jc.KeyRingBackend)
	setString(&cfg.KeyRingPassphrase, jc.KeyRingPassphrase)
	setString(&cfg.TempDir, jc.TempDir)
	setString(&cfg.Email, jc.Email)
	setString(&cfg.Password, jc.Password)
	if jc.Register {
		cfg.Register = true
	}
	setString(&cfg.BucketName, jc.BucketName)
	setString(&cfg.UploadBucketID, jc.UploadBucketID)
	setString(&cfg.UploadFile, jc.UploadFile)
	setString(&cfg.LogFormat, jc.LogFormat)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
