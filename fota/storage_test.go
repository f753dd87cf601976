package fota_test

import (
	"io"
	"testing"

	"digitalpetro.in/bpcl/fwdl/fota"
)

func TestDirStorage(t *testing.T) {
	storage := fota.DirStorage{Root: t.TempDir()}

	if storage.Exists("file.bin") {
		t.Fatal("file reported present before creation")
	}

	f, err := storage.Create("file.bin")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.Write([]byte("payload")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if !storage.Exists("file.bin") {
		t.Error("file reported absent after creation")
	}

	r, err := storage.Open("file.bin")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("got %q", data)
	}

	// Create truncates prior content.
	f, err = storage.Create("file.bin")
	if err != nil {
		t.Fatalf("re-create: %v", err)
	}
	f.Close()
	r, _ = storage.Open("file.bin")
	data, _ = io.ReadAll(r)
	r.Close()
	if len(data) != 0 {
		t.Errorf("got %d bytes after truncating create", len(data))
	}

	if err := storage.Remove("file.bin"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if storage.Exists("file.bin") {
		t.Error("file reported present after removal")
	}
	if _, err := storage.Open("file.bin"); err == nil {
		t.Error("expected error opening a removed file")
	}
}
