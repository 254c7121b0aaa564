package database

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrationFilesOrdered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_runs.sql", "001_users.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("--"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := migrationFiles(dir)
	if err != nil {
		t.Fatalf("migrationFiles() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "001_users.sql" || filepath.Base(files[1]) != "002_runs.sql" {
		t.Errorf("files = %v, want 001 before 002", files)
	}
}

func TestRepositoryMigrationsPresent(t *testing.T) {
	files, err := migrationFiles(filepath.Join("..", "..", "migrations"))
	if err != nil {
		t.Fatalf("migrationFiles() error = %v", err)
	}
	if len(files) < 2 {
		t.Fatalf("expected users and transcription_runs migrations, got %v", files)
	}
}
