// Package config loads runtime configuration for the Chatkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "database_path": "chatkeeper.db",
//	  "output_dir": "backups",
//	  "batch_size": 1000,
//	  "workers": 4,
//	  "user_id": "u1",
//	  "client_id": "c1",
//	  "user_handle": "alice"
//	}
//
// This package does not read environment variables.
package config
