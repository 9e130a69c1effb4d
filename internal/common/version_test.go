package common

import (
	"testing"
)

func TestGetFullVersion(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	defer func() {
		Version, Build, GitCommit = origVersion, origBuild, origCommit
	}()

	Version = "1.2.3"
	Build = "2026-08-24"
	GitCommit = "abc1234"

	got := GetFullVersion()
	want := "1.2.3 (build: 2026-08-24, commit: abc1234)"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	if GetVersion() != "1.2.3" {
		t.Errorf("Expected version '1.2.3', got %q", GetVersion())
	}
	if GetBuild() != "2026-08-24" {
		t.Errorf("Expected build '2026-08-24', got %q", GetBuild())
	}
	if GetGitCommit() != "abc1234" {
		t.Errorf("Expected commit 'abc1234', got %q", GetGitCommit())
	}
}
