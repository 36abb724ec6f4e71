// Package database provides a unified interface for connecting to item stores.
//
// # Supported Backends
//
//   - DynamoDB: items keyed by ownerId (partition) and itemId (sort)
//   - PostgreSQL: pgx connection pool
//   - SQLite: suitable for development and single-node deployments
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "sqlite",
//	    DSN:    "todos.db",
//	    Tables: todos.Tables{Items: "todo_items"},
//	}
//
//	db, err := database.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	repo := db.GetRepo()
//
// Open combines Connect, Ping and either Migrate or Validate.
package database
