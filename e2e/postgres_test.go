package e2e_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	postgresOnce sync.Once
	postgresDSN  string
	postgresErr  error
)

// getSharedPostgresDatabase starts one postgres container for the whole e2e
// run and returns its DSN. The container is removed when the test binary's
// cleanup runs through testcontainers' reaper.
func getSharedPostgresDatabase(t *testing.T) string {
	t.Helper()

	postgresOnce.Do(func() {
		ctx := context.Background()

		container, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("todos_e2e"),
			pgcontainer.WithUsername("todos"),
			pgcontainer.WithPassword("todos"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			postgresErr = err
			return
		}

		postgresDSN, postgresErr = container.ConnectionString(ctx, "sslmode=disable")
		if postgresErr != nil {
			_ = testcontainers.TerminateContainer(container)
		}
	})

	require.NoError(t, postgresErr, "start postgres container")
	return postgresDSN
}
