package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/bridgekeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8081")
//	-d string   PostgreSQL DSN
//	-s string   token HMAC secret key
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-repository memory|postgres
//	-blobs      memory|s3
//	-token-ttl, -nonce-ttl  durations
//	-storage, -transfer     default bucket quotas in bytes
//	-log        text|json|zap
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("bridge", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 root bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 root region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.RepositoryBackend, "repository", cfg.RepositoryBackend, "repository backend: memory or postgres")
	fs.StringVar(&cfg.BlobBackend, "blobs", cfg.BlobBackend, "blob backend: memory or s3")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "bucket token lifetime")
	fs.DurationVar(&cfg.NonceTTL, "nonce-ttl", cfg.NonceTTL, "request nonce retention")
	fs.Int64Var(&cfg.DefaultStorage, "storage", cfg.DefaultStorage, "default bucket storage quota, bytes")
	fs.Int64Var(&cfg.DefaultTransfer, "transfer", cfg.DefaultTransfer, "default bucket transfer quota, bytes")
	fs.StringVar(&cfg.LogFormat, "log", cfg.LogFormat, "log format: text, json or zap")

	return fs.Parse(flagx.FilterArgs(args, flagx.Names(fs)))
}
