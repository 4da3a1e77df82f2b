package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/bridgekeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only the
// flags defined here are parsed; anything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("bridgekeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BridgeURL, "bridge", cfg.BridgeURL, "bridge API base URL")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "max in-flight requests")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")
	fs.StringVar(&cfg.KeyPath, "key", cfg.KeyPath, "private key file")
	fs.StringVar(&cfg.KeyPassphrase, "key-passphrase", cfg.KeyPassphrase, "passphrase sealing the private key file")
	fs.StringVar(&cfg.KeyRingPath, "keyring", cfg.KeyRingPath, "key ring database")
	fs.StringVar(&cfg.KeyRingBackend, "keyring-backend", cfg.KeyRingBackend, "key ring backend: sqlite or bolt")
	fs.StringVar(&cfg.KeyRingPassphrase, "keyring-passphrase", cfg.KeyRingPassphrase, "key ring passphrase")
	fs.StringVar(&cfg.TempDir, "temp", cfg.TempDir, "directory for encrypted artifacts")
	fs.StringVar(&cfg.Email, "email", cfg.Email, "account email")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "account password")
	fs.BoolVar(&cfg.Register, "register", cfg.Register, "create the account first")
	fs.StringVar(&cfg.BucketName, "bucket", cfg.BucketName, "name of the demo bucket")
	fs.StringVar(&cfg.UploadBucketID, "upload-bucket", cfg.UploadBucketID, "bucket id to upload into")
	fs.StringVar(&cfg.UploadFile, "upload-file", cfg.UploadFile, "file to upload")
	fs.StringVar(&cfg.LogFormat, "log", cfg.LogFormat, "log format: text, json or zap")

	return fs.Parse(flagx.FilterArgs(args, flagx.Names(fs)))
}
