package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate, origNoColor := Version, GitCommit, BuildDate, color.NoColor
	t.Cleanup(func() {
		Version, GitCommit, BuildDate, color.NoColor = origVersion, origCommit, origDate, origNoColor
	})
	Version, GitCommit, BuildDate = v, commit, date
	color.NoColor = true
}

func TestColoredPlain(t *testing.T) {
	tests := []string{"0.1.0-dev", "1.2.3", "1.0.0-beta.1", "weird"}
	for _, v := range tests {
		withVersion(t, v, "", "")
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestColoredEscapes(t *testing.T) {
	withVersion(t, "1.2.3", "", "")
	color.NoColor = false
	if got := Colored(); !strings.Contains(got, "\x1b[") {
		t.Fatalf("Colored() = %q has no escapes", got)
	}
}

func TestInfo(t *testing.T) {
	withVersion(t, "1.2.3", "abc123", "2024-01-15T10:30:00Z")
	want := "bondrewd 1.2.3\ncommit: abc123\nbuilt:  2024-01-15T10:30:00Z\n"
	if got := Info(); got != want {
		t.Fatalf("Info() = %q", got)
	}

	withVersion(t, "1.2.3", "", "")
	if got := Info(); got != "bondrewd 1.2.3\n" {
		t.Fatalf("Info() without metadata = %q", got)
	}
}
