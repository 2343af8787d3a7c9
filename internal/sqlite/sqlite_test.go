package sqlite

import (
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestMigrateIsIdempotent(t *testing.T) {
	migrations := fstest.MapFS{
		"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER PRIMARY KEY);`)},
		"002_b.sql": {Data: []byte(`ALTER TABLE a ADD COLUMN name TEXT;`)},
		"README":    {Data: []byte(`ignored`)},
	}
	db, err := OpenMigrated(filepath.Join(t.TempDir(), "nested", "app.db"), migrations)
	if err != nil {
		t.Fatalf("OpenMigrated: %v", err)
	}
	defer db.Close()

	if err := Migrate(db, migrations); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 applied migrations, got %d", n)
	}
	if _, err := db.Exec(`INSERT INTO a (name) VALUES ('x')`); err != nil {
		t.Errorf("expected migrated schema, got %v", err)
	}
}

func TestMigrateSelfManagedScript(t *testing.T) {
	migrations := fstest.MapFS{
		"001_a.sql": {Data: []byte(`CREATE TABLE a (id INTEGER PRIMARY KEY, name TEXT);
INSERT INTO a (id, name) VALUES (1, NULL);`)},
		// A table rebuild manages its own transaction; wrapping it in another
		// one would fail on the nested BEGIN.
		"002_rebuild.sql": {Data: []byte(`PRAGMA foreign_keys=OFF;
BEGIN TRANSACTION;
CREATE TABLE a_new (id INTEGER PRIMARY KEY, name TEXT NOT NULL DEFAULT '');
INSERT INTO a_new (id, name) SELECT id, COALESCE(name, '') FROM a;
DROP TABLE a;
ALTER TABLE a_new RENAME TO a;
COMMIT;
PRAGMA foreign_keys=ON;`)},
	}
	db, err := OpenMigrated(filepath.Join(t.TempDir(), "app.db"), migrations)
	if err != nil {
		t.Fatalf("OpenMigrated: %v", err)
	}
	defer db.Close()

	var name string
	if err := db.QueryRow(`SELECT name FROM a WHERE id = 1`).Scan(&name); err != nil {
		t.Fatalf("expected rebuilt table, got %v", err)
	}
	if name != "" {
		t.Errorf("expected empty default name, got %q", name)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(1) FROM _migrations WHERE name = '002_rebuild.sql'`).Scan(&n); err != nil || n != 1 {
		t.Errorf("expected rebuild recorded once, got %d (%v)", n, err)
	}
}
