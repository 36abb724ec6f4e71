package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/todos"
	"github.com/sagarc03/todos/database/dynamodb"
	"github.com/sagarc03/todos/database/postgres"
	"github.com/sagarc03/todos/database/sqlite"
)

// Supported backend types.
const (
	TypeDynamoDB = "dynamodb"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Config holds the configuration for connecting to an item store.
type Config struct {
	// Type specifies the backend: "dynamodb", "sqlite" or "postgres"
	Type string `mapstructure:"type" validate:"required,oneof=dynamodb sqlite postgres"`
	// DSN is the connection string for the SQL backends
	DSN string `mapstructure:"dsn"`
	// Tables holds the table names
	Tables todos.Tables `mapstructure:"tables"`
	// DynamoDB holds client settings used when Type is "dynamodb"
	DynamoDB dynamodb.Config `mapstructure:"dynamodb"`
}

// Database is a connected item store.
type Database interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Validate(ctx context.Context) error
	GetRepo() todos.ItemRepo
	Close() error
}

// Connect opens the configured backend. It does not migrate or validate the
// schema; callers decide which of the two to run.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	switch cfg.Type {
	case TypeDynamoDB:
		if !dynamodb.IsValidTableName(cfg.Tables.Items) {
			return nil, fmt.Errorf("connect: invalid dynamodb table name: %s", cfg.Tables.Items)
		}
		db, err := dynamodb.Connect(ctx, cfg.DynamoDB, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	case TypeSQLite:
		if err := cfg.Tables.Validate(); err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		db, err := sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	case TypePostgres:
		if err := cfg.Tables.Validate(); err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		db, err := postgres.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// Open connects, then either migrates or validates the schema depending on
// migrate, and finally pings the backend.
func Open(ctx context.Context, cfg Config, migrate bool) (Database, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Type, err)
	}

	if migrate {
		err = db.Migrate(ctx)
	} else {
		err = db.Validate(ctx)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare %s: %w", cfg.Type, err)
	}

	return db, nil
}
