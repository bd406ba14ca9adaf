// Package pgtest starts a disposable PostgreSQL container for integration
// tests and applies the relayer migrations to it.
package pgtest

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/migration"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Helper owns one container and a client connected to it.
type Helper struct {
	T      *testing.T
	Client *postgresql.Client
	tables []string
}

// New starts postgres:16-alpine, applies migrations and registers cleanup on t.
// It skips the test under -short.
func New(t *testing.T, migrations fs.FS, tables ...string) *Helper {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("relayer_test"),
		postgres.WithUsername("relayer"),
		postgres.WithPassword("relayer"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate test container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	client := postgresql.NewClientFromPool(pool)
	require.NoError(t, migration.NewRunner(client, migrations, logger.NewNopLogger()).Up(ctx, 0))

	return &Helper{T: t, Client: client, tables: tables}
}

// CleanupTables truncates the tables given to New.
func (h *Helper) CleanupTables() {
	for _, table := range h.tables {
		_, err := h.Client.Exec(context.Background(), "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(h.T, err)
	}
}
