package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	data := []byte("[Service]\nExecStart=/usr/bin/true\n")

	if err := WriteFileAtomic(dir, "web.service", data, 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() returned error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "web.service"))
	if err != nil {
		t.Fatalf("ReadFile() returned error: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("file content = %q, want %q", got, data)
	}

	info, err := os.Stat(filepath.Join(dir, "web.service"))
	if err != nil {
		t.Fatalf("Stat() returned error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("file mode = %o, want 0644", perm)
	}
}

func TestWriteFileAtomic_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFileAtomic(dir, "web.service", []byte("old"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() returned error: %v", err)
	}
	if err := WriteFileAtomic(dir, "web.service", []byte("new"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() second write returned error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "web.service"))
	if err != nil {
		t.Fatalf("ReadFile() returned error: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("file content = %q, want %q", got, "new")
	}
}

func TestWriteFileAtomic_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFileAtomic(dir, "web.service", []byte("data"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() returned error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() returned error: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file %q left behind after successful write", e.Name())
		}
	}
}

func TestWriteFileAtomic_FailureLeavesNoPartialTarget(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist")

	if err := WriteFileAtomic(missing, "web.service", []byte("data"), 0o644); err == nil {
		t.Fatal("WriteFileAtomic() into missing directory succeeded, want error")
	}
	if _, err := os.Stat(filepath.Join(missing, "web.service")); !os.IsNotExist(err) {
		t.Errorf("Stat() after failed write = %v, want not-exist", err)
	}
}
