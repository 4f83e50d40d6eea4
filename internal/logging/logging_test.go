package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" Error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf})
	l.Debug("d")
	l.Info("i")
	l.Warn("w %d", 1)
	l.Error("e")

	out := buf.String()
	if strings.Contains(out, "[DEBUG]") || strings.Contains(out, "[INFO]") {
		t.Errorf("low levels leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] w 1") || !strings.Contains(out, "[ERROR] e") {
		t.Errorf("missing lines: %q", out)
	}
}

func TestFieldsSortedAndInherited(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: LevelDebug, Output: &buf, Prefix: "keynote"})
	l := root.WithComponent("persist").WithField("key", "content")
	l.Info("saved")
	root.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.HasSuffix(lines[0], "keynote: saved {component=persist, key=content}") {
		t.Errorf("line = %q", lines[0])
	}
	if strings.Contains(lines[1], "{") {
		t.Errorf("parent picked up child fields: %q", lines[1])
	}
}

func TestSetLevelSharedWithDerived(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: LevelError, Output: &buf})
	child := root.WithComponent("app")
	root.SetLevel(LevelDebug)
	if !child.Enabled(LevelDebug) {
		t.Error("derived logger should follow the parent's level")
	}
}

func TestNullAndDefault(t *testing.T) {
	if Null().Enabled(LevelError) {
		t.Error("Null logger should be disabled")
	}
	var buf bytes.Buffer
	prev := Default()
	defer SetDefault(prev)

	SetDefault(New(Config{Level: LevelInfo, Output: &buf}))
	Default().Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Error("SetDefault did not take effect")
	}
	SetDefault(nil)
	if Default() == nil {
		t.Error("SetDefault(nil) should install a null logger")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "keynote.log")
	l, closer, err := OpenFile(path, LevelInfo)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("started")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "keynote: started") {
		t.Errorf("log file = %q", data)
	}
}
