package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	// Open multiple times
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	// Verify schema is intact
	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='snapshots'",
	).Scan(&name)
	if err != nil {
		t.Errorf("snapshots table not found after idempotent opens: %v", err)
	}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
	if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
}

func TestOpen_SetsSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("query user_version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, expected %d", version, currentSchemaVersion)
	}
}

func TestSQLite_SaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "basket/cart/s1", []byte(`{"lines":[]}`)); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	payload, found, err := s.Load(ctx, "basket/cart/s1")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !found {
		t.Fatal("Load() found=false for saved key")
	}
	if string(payload) != `{"lines":[]}` {
		t.Errorf("payload = %q, expected %q", payload, `{"lines":[]}`)
	}
}

func TestSQLite_SaveOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("first Save() failed: %v", err)
	}
	if err := s.Save(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}

	payload, _, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if string(payload) != "v2" {
		t.Errorf("payload = %q, expected %q", payload, "v2")
	}
}

func TestSQLite_LoadMissingKey(t *testing.T) {
	s := openTestStore(t)

	payload, found, err := s.Load(context.Background(), "no-such-key")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if found {
		t.Error("found=true for missing key")
	}
	if payload != nil {
		t.Errorf("payload = %q, expected nil", payload)
	}
}

func TestSQLite_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	_, found, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if found {
		t.Error("found=true after delete")
	}

	// Deleting an absent key is a no-op
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete() failed: %v", err)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s1.Save(ctx, "basket/cart/s1", []byte("payload")); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	payload, found, err := s2.Load(ctx, "basket/cart/s1")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !found {
		t.Fatal("payload did not survive reopen")
	}
	if string(payload) != "payload" {
		t.Errorf("payload = %q, expected %q", payload, "payload")
	}
}

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
