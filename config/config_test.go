package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setDir(t *testing.T, files map[string]string) {
	t.Helper()
	tmp := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmp, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	old := dir
	dir = tmp
	t.Cleanup(func() { dir = old })
}

func TestInt(t *testing.T) {
	setDir(t, map[string]string{
		"size-kib.txt": "2048\n",
		"inodes.txt":   "lots",
	})
	for _, tt := range []struct {
		name string
		def  int
		want int
	}{
		{"size-kib.txt", 1024, 2048},
		{"inodes.txt", 128, 128},
		{"missing.txt", 7, 7},
	} {
		if got := Int(tt.name, tt.def); got != tt.want {
			t.Errorf("Int(%q, %d) = %d, want %d", tt.name, tt.def, got, tt.want)
		}
	}
}

func TestReadFile(t *testing.T) {
	setDir(t, map[string]string{"preset.txt": "  tiny \n"})
	got, err := ReadFile("preset.txt")
	if err != nil {
		t.Fatal(err)
	}
	if want := "tiny"; got != want {
		t.Errorf("ReadFile = %q, want %q", got, want)
	}
	if _, err := ReadFile("missing.txt"); !os.IsNotExist(err) {
		t.Errorf("ReadFile(missing): err = %v, want not exist", err)
	}
}
