package database

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRebind(t *testing.T) {
	pg := &DB{Driver: DriverPostgres}
	got := pg.Rebind("SELECT * FROM ships WHERE imo_number = ? AND length > ?")
	want := "SELECT * FROM ships WHERE imo_number = $1 AND length > $2"
	if got != want {
		t.Errorf("Rebind = %q, want %q", got, want)
	}

	lite := &DB{Driver: DriverSQLite}
	q := "SELECT ? , ?"
	if got := lite.Rebind(q); got != q {
		t.Errorf("sqlite Rebind changed query: %q", got)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := Placeholders(3); got != "?, ?, ?" {
		t.Errorf("Placeholders(3) = %q", got)
	}
	if got := Placeholders(0); got != "" {
		t.Errorf("Placeholders(0) = %q", got)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "mysql", DSN: "x"}); err == nil {
		t.Error("expected error for unsupported driver")
	}
	if _, err := Open(context.Background(), Config{Driver: DriverSQLite}); err == nil {
		t.Error("expected error for empty DSN")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 3 {
		t.Errorf("applied migrations = %d, want 3", n)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM navigational_status").Scan(&n); err != nil {
		t.Fatalf("count statuses: %v", err)
	}
	if n != 10 {
		t.Errorf("seeded statuses = %d, want 10", n)
	}
}

func TestLoadMigrationsBothDialects(t *testing.T) {
	for _, driver := range []string{DriverSQLite, DriverPostgres} {
		m := NewMigrationManager(&DB{Driver: driver})
		migrations, err := m.LoadMigrations()
		if err != nil {
			t.Fatalf("%s: LoadMigrations: %v", driver, err)
		}
		if len(migrations) != 3 || migrations[0].Version != 1 || migrations[2].Version != 3 {
			t.Errorf("%s: unexpected migrations %+v", driver, migrations)
		}
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("-- comment\nCREATE TABLE a (x INT);\n\nCREATE INDEX i ON a (x);\nSELECT 1")
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3: %q", len(stmts), stmts)
	}
	if stmts[0] != "CREATE TABLE a (x INT);" {
		t.Errorf("first statement = %q", stmts[0])
	}
}
