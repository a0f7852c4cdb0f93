package postgres

import "testing"

func TestLoadMigrations_SortedAndNamed(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatalf("expected at least one embedded migration")
	}

	for i, m := range migrations {
		if m.Version <= 0 {
			t.Fatalf("migration %d has non-positive version %d", i, m.Version)
		}
		if m.Name == "" {
			t.Fatalf("migration %d has empty name", m.Version)
		}
		if m.SQL == "" {
			t.Fatalf("migration %d_%s has empty SQL body", m.Version, m.Name)
		}
		if i > 0 && migrations[i-1].Version >= m.Version {
			t.Fatalf("migrations are not strictly ordered: %d then %d", migrations[i-1].Version, m.Version)
		}
	}

	if migrations[0].Version != 1 || migrations[0].Name != "create_inventory_stock" {
		t.Fatalf("unexpected first migration: %d_%s", migrations[0].Version, migrations[0].Name)
	}
}
