package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/medas/intern-tracker-go/internal/pkg/database"
)

// TestDatabaseSetup wraps a connection to the database named by TEST_DATABASE_URL.
// The schema from migrations/ must already be applied.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase skips the calling test when TEST_DATABASE_URL is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.TruncateAllTables(context.Background()); err != nil {
		db.Close()
		t.Fatalf("failed to reset test database: %v", err)
	}
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables empties every table in one transaction.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"approval_histories",
		"timesheet_details",
		"timesheets",
		"leave_requests",
		"interns",
		"users",
	}

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
