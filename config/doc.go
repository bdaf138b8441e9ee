// Package config provides configuration loading and validation for the
// media storage broker.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (MEDIASTORE_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with MEDIASTORE_ prefix:
//   - server.port → MEDIASTORE_SERVER_PORT
//   - database.dsn → MEDIASTORE_DATABASE_DSN
//   - object_store.secret_key → MEDIASTORE_OBJECT_STORE_SECRET_KEY
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: port, request body cap and shutdown timeout
//   - Database: type (sqlite/postgres), DSN, and table names
//   - ObjectStore: signing backend (s3/minio), bucket, credentials, URL lifetime
//   - Auth: identity provider (jwks/hmac), signing keys, token cache
//   - CORS: cross-origin resource sharing settings
//   - Log: level and format (text/json)
package config
