// Package config loads runtime configuration for the bridgekeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "bridge_url": "https://api.storj.io",
//	  "concurrency": 6,
//	  "request_timeout": "30s",
//	  "key_path": "./private.key",
//	  "keyring_path": "./keyring.db",
//	  "keyring_backend": "sqlite",
//	  "keyring_passphrase": "keypass",
//	  "temp_dir": "./temp",
//	  "email": "user@example.com",
//	  "bucket_name": "TestBucket",
//	  "upload_bucket_id": "194128b5cb3d17f1b6e51397",
//	  "upload_file": "dummy_file.txt",
//	  "log_format": "text"
//	}
//
// Empty JSON values leave the earlier value in place. Environment variables
// are not read.
package config
