package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bridgekeeper/internal/flagx"
	"github.com/dmitrijs2005/bridgekeeper/internal/timex"
)

// JsonConfig is the JSON form of Config. Durations accept "5m" or
// nanoseconds through timex.Duration.
type JsonConfig struct {
	ListenAddr        string         `json:"listen_addr"`
	RepositoryBackend string         `json:"repository_backend"`
	DatabaseDSN       string         `json:"database_dsn"`
	BlobBackend       string         `json:"blob_backend"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	SecretKey         string         `json:"secret_key"`
	TokenTTL          timex.Duration `json:"token_ttl"`
	NonceTTL          timex.Duration `json:"nonce_ttl"`
	DefaultStorage    int64          `json:"default_storage"`
	DefaultTransfer   int64          `json:"default_transfer"`
	LogFormat         string         `json:"log_format"`
}

// parseJson overlays Config with the non-empty values of the JSON file
// given with -c or -config.
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

	for dst, v := range map[*string]string{
		&cfg.ListenAddr:        jc.ListenAddr,
		&cfg.RepositoryBackend: jc.RepositoryBackend,
		&cfg.DatabaseDSN:       jc.DatabaseDSN,
		&cfg.BlobBackend:       jc.BlobBackend,
		&cfg.S3RootUser:        jc.S3RootUser,
		&cfg.S3RootPassword:    jc.S3RootPassword,
		&cfg.S3Bucket:          jc.S3Bucket,
		&cfg.S3Region:          jc.S3Region,
		&cfg.S3BaseEndpoint:    jc.S3BaseEndpoint,
		&cfg.SecretKey:         jc.SecretKey,
		&cfg.LogFormat:         jc.LogFormat,
	} {
		if v != "" {
			*dst = v
		}
	}
	if jc.TokenTTL.Duration != 0 {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
	if jc.NonceTTL.Duration != 0 {
		cfg.NonceTTL = jc.NonceTTL.Duration
	}
	if jc.DefaultStorage != 0 {
		cfg.DefaultStorage = jc.DefaultStorage
	}
	if jc.DefaultTransfer != 0 {
		cfg.DefaultTransfer = jc.DefaultTransfer
	}
	return nil
}
