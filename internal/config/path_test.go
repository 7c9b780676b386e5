package config

import (
	"path/filepath"
	"testing"
)

func TestUserConfigPathPrefersXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := UserConfigPath()
	if err != nil {
		t.Fatalf("user config path: %v", err)
	}
	want := filepath.Clean("/tmp/xdg/id3fix/config.yaml")
	if got != want {
		t.Fatalf("unexpected config path. got=%q want=%q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("MUSIC_REPORTS", "/srv/reports")

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "", want: ""},
		{raw: "~", want: "/home/tester"},
		{raw: "~/reports", want: "/home/tester/reports"},
		{raw: "$MUSIC_REPORTS/id3", want: "/srv/reports/id3"},
		{raw: " ./out/../reports ", want: "reports"},
	}
	for _, tc := range tests {
		got, err := ExpandPath(tc.raw)
		if err != nil {
			t.Fatalf("ExpandPath(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ExpandPath(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
