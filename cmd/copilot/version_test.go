package main

import (
	"testing"
)

func TestBuildInfo(t *testing.T) {
	commit, built := buildInfo()

	// Without a vcs stamp (as in test binaries) both fall back.
	if commit == "" {
		t.Error("commit should never be empty")
	}
	if built == "" {
		t.Error("built should never be empty")
	}
}

func TestVersionDefault(t *testing.T) {
	if version == "" {
		t.Error("version must have a default for unstamped builds")
	}
}
