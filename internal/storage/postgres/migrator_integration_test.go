package postgres

import (
	"context"
	"testing"
	"time"
)

func TestMigrateUp_Integration_IdempotentAndTracked(t *testing.T) {
	store := openRawPostgresStoreForIntegrationTest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}

	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("first migrate up: %v", err)
	}

	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("migration status: %v", err)
	}
	if count < len(migrations) {
		t.Fatalf("expected at least %d applied migrations, got %d", len(migrations), count)
	}
	if version < migrations[len(migrations)-1].Version {
		t.Fatalf("expected schema version >= %d, got %d", migrations[len(migrations)-1].Version, version)
	}

	// Повторный прогон не должен ничего ломать и менять счётчики.
	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("second migrate up: %v", err)
	}

	versionAfter, countAfter, err := store.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("migration status after rerun: %v", err)
	}
	if versionAfter != version || countAfter != count {
		t.Fatalf("rerun changed status: version %d->%d, count %d->%d", version, versionAfter, count, countAfter)
	}
}
