package commands

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("invalid-driver", func(t *testing.T) {
		err := RunMigrations(logger, "sqlite", "postgres://localhost")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})

	t.Run("invalid-postgres-connection-string", func(t *testing.T) {
		err := RunMigrations(logger, "postgres", "invalid-connection-string")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})

	t.Run("invalid-mysql-connection-string", func(t *testing.T) {
		err := RunMigrations(logger, "mysql", "://not-a-dsn")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})
}
