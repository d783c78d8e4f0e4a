package version

import "testing"

func TestGetFullVersion(t *testing.T) {
	if got := GetFullVersion(); got != "dev" {
		t.Errorf("GetFullVersion() = %q, want dev", got)
	}

	defer func(v, c, d string) { Version, GitCommit, BuildDate = v, c, d }(Version, GitCommit, BuildDate)
	Version, GitCommit, BuildDate = "1.2.0", "abc123", "2026-01-02"
	want := "1.2.0 (commit abc123, built 2026-01-02)"
	if got := GetFullVersion(); got != want {
		t.Errorf("GetFullVersion() = %q, want %q", got, want)
	}
	if got := GetVersion(); got != "1.2.0" {
		t.Errorf("GetVersion() = %q, want 1.2.0", got)
	}
}
