package cli

import (
	"io"
	"testing"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		command string
		wantErr bool
	}{
		{"none", nil, "", false},
		{"kill long", []string{"--kill"}, "kill", false},
		{"kill short", []string{"-k"}, "kill", false},
		{"launch", []string{"-L"}, "launch", false},
		{"block", []string{"-b"}, "block", false},
		{"unblock", []string{"--unblock"}, "unblock", false},
		{"history", []string{"-H"}, "history", false},
		{"check update", []string{"-U"}, "check-update", false},
		{"two commands", []string{"-k", "-L"}, "", true},
		{"unknown flag", []string{"--nope"}, "", true},
		{"stray argument", []string{"kill"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := parseArgs(tt.args, io.Discard)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := f.Command(); got != tt.command {
				t.Errorf("got command %q, want %q", got, tt.command)
			}
		})
	}
}

func TestParseArgsOptions(t *testing.T) {
	f, err := parseArgs([]string{"-d", "-c", `C:\gta\config.toml`}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Debug {
		t.Error("debug not set")
	}
	if f.ConfigPath != `C:\gta\config.toml` {
		t.Errorf("got config %q", f.ConfigPath)
	}
}
