package app

import "testing"

func TestBuildVersion_Defaults(t *testing.T) {
	t.Parallel()

	got := BuildVersion()
	want := "dev (commit: unknown, built: unknown)"

	if got != want {
		t.Errorf("BuildVersion() = %q, want %q", got, want)
	}
}
