package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/database"
)

// PostgresImage is the PostgreSQL image integration tests run against.
const PostgresImage = "postgres:16-alpine"

const (
	testDBName     = "campaign_engine_test"
	testDBUser     = "campaign"
	testDBPassword = "test_password"
)

// EngineDB holds a migrated database shared by every integration test in a run.
type EngineDB struct {
	Container testcontainers.Container
	DB        *database.DB
	ConnStr   string
}

var (
	sharedEngineDB     *EngineDB
	sharedEngineDBOnce sync.Once
	sharedEngineDBErr  error
)

// GetEngineDB returns the shared PostgreSQL container with migrations applied.
// The container is created once and reused across all tests in the run.
func GetEngineDB(t *testing.T) *EngineDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedEngineDBOnce.Do(func() {
		sharedEngineDB, sharedEngineDBErr = setupEngineDB()
	})

	if sharedEngineDBErr != nil {
		t.Fatalf("Failed to setup engine database: %v", sharedEngineDBErr)
	}

	return sharedEngineDB
}

func setupEngineDB() (*EngineDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       testDBName,
			"POSTGRES_USER":     testDBUser,
			"POSTGRES_PASSWORD": testDBPassword,
		},
		// The entrypoint restarts postgres once after init, so the ready line appears twice.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		testDBUser, testDBPassword, host, port.Port(), testDBName)

	if err := database.Migrate(connStr, zap.NewNop()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            connStr,
		MaxConnections: 5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to engine database: %w", err)
	}

	return &EngineDB{
		Container: container,
		DB:        db,
		ConnStr:   connStr,
	}, nil
}

// ScopedContext returns a context carrying a database scope on the shared
// database. The scope is released when the test ends.
func (e *EngineDB) ScopedContext(t *testing.T) context.Context {
	t.Helper()

	ctx := context.Background()
	scope, err := e.DB.AcquireScope(ctx)
	if err != nil {
		t.Fatalf("failed to acquire database scope: %v", err)
	}
	t.Cleanup(scope.Close)

	return database.SetScope(ctx, scope)
}

// Reset empties every table and restarts the id sequences.
func (e *EngineDB) Reset(t *testing.T) {
	t.Helper()

	_, err := e.DB.Exec(context.Background(), `
		TRUNCATE activities, comments, publications, materials, scenarios,
		         project_influencers, projects, influencers, users
		RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to reset database: %v", err)
	}
}
