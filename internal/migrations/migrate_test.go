package migrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindLatestVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000001_init_schema.up.sql",
		"000001_init_schema.down.sql",
		"000012_add_keeper.up.sql",
		"000003_admin.up.sql",
		"README.md",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "000099_dir"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := FindLatestVersion(dir); got != 12 {
		t.Errorf("expected latest version 12, got %d", got)
	}
}

func TestFindLatestVersionMissingDir(t *testing.T) {
	if got := FindLatestVersion(filepath.Join(t.TempDir(), "nope")); got != 0 {
		t.Errorf("missing dir should report 0, got %d", got)
	}
}

func TestRepositoryMigrationsPresent(t *testing.T) {
	if got := FindLatestVersion("../../migrations"); got < 2 {
		t.Errorf("expected at least two migrations in the repository, found version %d", got)
	}
}

func TestRunMigrationsNeedsURL(t *testing.T) {
	if err := RunMigrations("", ""); err == nil {
		t.Error("empty database URL should fail")
	}
}
