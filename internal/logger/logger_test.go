package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abbr_helper.log")

	log := New("info", false, path)
	log.Debug("hidden")
	log.With(String("component", "test")).Info("visible", Int("n", 3))
	_ = log.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, `"msg":"visible"`) {
		t.Errorf("log file missing info entry: %s", out)
	}
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("log file missing child field: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry should be filtered at info level: %s", out)
	}
}

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
	}{
		{level: "debug", wantDebug: true},
		{level: "DEBUG", wantDebug: true},
		{level: "error", wantDebug: false},
		{level: "bogus", wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.log")
			log := New(tt.level, false, path)
			log.Debug("probe")
			_ = log.Sync()

			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if got := strings.Contains(string(raw), "probe"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}
