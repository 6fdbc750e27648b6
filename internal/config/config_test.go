package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFileReturnsStandard(t *testing.T) {
	d, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if d != Standard {
		t.Fatalf("LoadFrom(missing) = %+v, want Standard %+v", d, Standard)
	}
}

func TestLoadFromOverlaysOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("width: 120\n"), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if d.Width != 120 {
		t.Errorf("Width = %d, want 120", d.Width)
	}
	if d.Height != Standard.Height {
		t.Errorf("Height = %d, want untouched Standard.Height %d", d.Height, Standard.Height)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("width: [unterminated\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom with malformed yaml: want error, got nil")
	}
}

func TestDirIsNonEmpty(t *testing.T) {
	if got := Dir(); got == "" {
		t.Fatal("Dir() returned empty string")
	}
}

func TestStandardDefaultsMatchOriginalSuite(t *testing.T) {
	if Standard.Width != 80 || Standard.Height != 24 {
		t.Fatalf("Standard = %+v, want width=80 height=24", Standard)
	}
	if Standard.WaitFor <= 0 {
		t.Fatalf("Standard.WaitFor = %v, want positive", Standard.WaitFor)
	}
	_ = time.Second
}
