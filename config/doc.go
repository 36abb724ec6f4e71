// Package config provides configuration loading and validation for the todos server.
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
//  3. Environment variables (TODOS_ prefix)
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
// All config keys map to environment variables with TODOS_ prefix:
//   - server.port → TODOS_SERVER_PORT
//   - database.type → TODOS_DATABASE_TYPE
//   - auth.keys.jwks_url → TODOS_AUTH_KEYS_JWKS_URL
//   - storage.s3.bucket → TODOS_STORAGE_S3_BUCKET
//
// # Configuration Structure
//
// The Config struct contains:
//   - Env: dev or prod; prod switches logging to JSON
//   - Server: port, body size limit, timeouts and startup migration
//   - Database: backend type (dynamodb, sqlite, postgres), DSN, table names
//   - Storage: attachment backend (s3 or stowry)
//   - Auth: token issuer, audience, algorithms and key source
//   - CORS: cross-origin resource sharing settings
//   - ImageFilter: the /filteredimage endpoint
//   - Log: logging level
package config
