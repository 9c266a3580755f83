package server

import (
	"testing"

	"github.com/the-last-flaw/refine-forge/server/config"
)

func TestNewCommandRoot(t *testing.T) {
	buildOpts := config.BuildOpts{
		BuildVersion: "test-version",
		BuildTime:    "test-time",
	}

	s := NewServer(buildOpts)
	start, cmd := NewCommandRoot(s)

	if start == nil {
		t.Fatal("NewCommandRoot() start pointer is nil")
	}

	if cmd == nil {
		t.Fatal("NewCommandRoot() command is nil")
	}

	if cmd.Name != "refine-forge" {
		t.Errorf("NewCommandRoot() command name = %v, want 'refine-forge'", cmd.Name)
	}

	if len(cmd.Flags) == 0 {
		t.Error("NewCommandRoot() should have flags configured")
	}

	if len(cmd.Commands) == 0 {
		t.Error("NewCommandRoot() should have subcommands configured")
	}

	// Initially start should be false
	if *start {
		t.Error("NewCommandRoot() start should initially be false")
	}
}

func TestNewCommandRoot_Version(t *testing.T) {
	s := NewServer(config.BuildOpts{BuildVersion: "1.2.3", BuildTime: "2025-01-01"})
	_, cmd := NewCommandRoot(s)

	if cmd.Version != "1.2.3 (2025-01-01)" {
		t.Errorf("NewCommandRoot() version = %q", cmd.Version)
	}

	s = NewServer(config.BuildOpts{BuildVersion: "1.2.3"})
	_, cmd = NewCommandRoot(s)

	if cmd.Version != "1.2.3" {
		t.Errorf("NewCommandRoot() version without build time = %q", cmd.Version)
	}
}
