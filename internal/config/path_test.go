package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "absolute unchanged", in: "/var/lib/packsmith.db", want: "/var/lib/packsmith.db"},
		{name: "tilde prefix", in: "~/data/packsmith.db", want: filepath.Join(home, "data", "packsmith.db")},
		{name: "bare tilde", in: "~", want: home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandPathEnvVar(t *testing.T) {
	t.Setenv("PACKSMITH_TEST_DIR", "/tmp/packsmith-test")

	got := ExpandPath("$PACKSMITH_TEST_DIR/catalog.csv")
	if got != "/tmp/packsmith-test/catalog.csv" {
		t.Errorf("ExpandPath = %q", got)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	if got := Dir(); got != filepath.Join("/tmp/xdg", appDirName) {
		t.Errorf("Dir() = %q", got)
	}
	if got := DefaultDatabasePath(); !strings.HasSuffix(got, "packsmith.db") {
		t.Errorf("DefaultDatabasePath() = %q", got)
	}
}
