package tokencache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "jwt_cache.json"))

	token, expiry := s.Load()
	if token != "" || expiry != 0 {
		t.Errorf("Load on missing file = (%q, %d), want empty miss", token, expiry)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwt_cache.json")
	s := NewFileStore(path)

	if err := s.Save("t1.iam.token", 1900000000); err != nil {
		t.Fatalf("Save: %v", err)
	}

	token, expiry := s.Load()
	if token != "t1.iam.token" {
		t.Errorf("token = %q, want t1.iam.token", token)
	}
	if expiry != 1900000000 {
		t.Errorf("expiry = %d, want 1900000000", expiry)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwt_cache.json")
	s := NewFileStore(path)

	if err := s.Save("old", 100); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save("new", 200); err != nil {
		t.Fatalf("Save: %v", err)
	}

	token, expiry := s.Load()
	if token != "new" || expiry != 200 {
		t.Errorf("Load = (%q, %d), want (new, 200)", token, expiry)
	}
}

func TestFileStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwt_cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path)
	token, expiry := s.Load()
	if token != "" || expiry != 0 {
		t.Errorf("Load on malformed file = (%q, %d), want empty miss", token, expiry)
	}
}

func TestFileStoreSaveError(t *testing.T) {
	// Point at a path whose parent directory does not exist.
	s := NewFileStore(filepath.Join(t.TempDir(), "nope", "jwt_cache.json"))
	if err := s.Save("t", 1); err == nil {
		t.Fatal("expected error writing into missing directory")
	}
}
