//go:build database

package analyses_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/JaimeStill/monitor/internal/analyses"
	"github.com/JaimeStill/monitor/internal/classifier"
	"github.com/JaimeStill/monitor/internal/migrations"
	"github.com/JaimeStill/monitor/pkg/database"
)

func postgresStore(t *testing.T) analyses.Store {
	t.Helper()
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "monitor",
				"POSTGRES_USER":     "monitor",
				"POSTGRES_PASSWORD": "monitor",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	mapped, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	port, err := strconv.Atoi(mapped.Port())
	require.NoError(t, err)

	cfg := database.Config{
		Driver:   database.DriverPostgres,
		Host:     host,
		Port:     port,
		Name:     "monitor",
		User:     "monitor",
		Password: "monitor",
		SSLMode:  "disable",
	}
	require.NoError(t, cfg.Finalize(nil))

	db, err := database.New(&cfg, discard())
	require.NoError(t, err)
	t.Cleanup(func() { db.Connection().Close() })

	_, err = migrations.Up(ctx, db.Connection(), db.Driver())
	require.NoError(t, err)

	return analyses.NewStore(db.Connection(), db.Dialect(), discard())
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	store := postgresStore(t)
	ctx := context.Background()
	at := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

	rec := newRecord("Rotated keys", "Rotate keys quarterly", classifier.LabelComplies, "0.97", at)
	require.NoError(t, store.Add(ctx, rec))
	assert.Positive(t, rec.ID)

	err := store.Add(ctx, newRecord("Rotated keys", "Rotate keys quarterly", classifier.LabelDeviates, "0.10", at))
	assert.ErrorIs(t, err, analyses.ErrDuplicate)

	found, err := store.FindOne(ctx, analyses.Match{Action: "Rotated keys", Guideline: "Rotate keys quarterly"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "0.97", found.Confidence.StringFixed(2))
	assert.True(t, found.CreatedAt.Equal(at))

	counts, err := store.CountBy(ctx, analyses.ColumnResult)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{classifier.LabelComplies: 1}, counts)
}
