package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryFileSystem(t *testing.T) {
	m := NewMemoryFileSystem()

	if _, err := m.ReadFile("missing.json"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("ReadFile missing: got %v, want ErrNotExist", err)
	}

	w, err := m.Create("out/./frame.png")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("abc"))
	if _, err := m.Stat("out/frame.png"); err == nil {
		t.Fatal("file visible before Close")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	info, err := m.Stat("out/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 3 || info.Name() != "frame.png" {
		t.Errorf("Stat = %q/%d, want frame.png/3", info.Name(), info.Size())
	}
	data, _ := m.ReadFile("out/frame.png")
	if string(data) != "abc" {
		t.Errorf("ReadFile = %q", data)
	}
}

func TestOSFileSystem(t *testing.T) {
	var fsys FileSystem = OSFileSystem{}
	p := filepath.Join(t.TempDir(), "x.json")

	w, err := fsys.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("{}"))
	w.Close()

	data, err := fsys.ReadFile(p)
	if err != nil || string(data) != "{}" {
		t.Fatalf("ReadFile = %q, %v", data, err)
	}
	if _, err := fsys.Stat(p + ".nope"); !os.IsNotExist(err) {
		t.Errorf("Stat missing: %v", err)
	}
}
