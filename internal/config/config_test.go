package config

import (
	"os"
	"testing"
	"time"
)

func TestNormalizeExtensions(t *testing.T) {
	tests := []struct {
		name     string
		exts     []string
		expected []string
	}{
		{
			name:     "plain",
			exts:     []string{"txt", "docx", "pdf"},
			expected: []string{"txt", "docx", "pdf"},
		},
		{
			name:     "dots and case",
			exts:     []string{".TXT", "Docx"},
			expected: []string{"txt", "docx"},
		},
		{
			name:     "duplicates and blanks",
			exts:     []string{"pdf", ".pdf", "."},
			expected: []string{"pdf"},
		},
		{
			name:     "empty slice",
			exts:     []string{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizeExtensions(tt.exts)
			if len(result) != len(tt.expected) {
				t.Errorf("normalizeExtensions() length = %v, want %v", len(result), len(tt.expected))
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("normalizeExtensions()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestGetenvInt64(t *testing.T) {
	t.Setenv("TEST_INT64", "262144000")
	t.Setenv("TEST_INT64_INVALID", "lots")

	if got := getenvInt64("TEST_INT64", 1); got != 262144000 {
		t.Errorf("getenvInt64() = %v, want 262144000", got)
	}
	if got := getenvInt64("TEST_INT64_INVALID", 7); got != 7 {
		t.Errorf("getenvInt64() invalid = %v, want default 7", got)
	}
	if got := getenvInt64("TEST_INT64_MISSING", 9); got != 9 {
		t.Errorf("getenvInt64() missing = %v, want default 9", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ABBR_DB_FILE", "ABBR_REDIS_ADDR", "ABBR_DISABLE_POLICY", "ABBR_ALLOWED_EXTENSIONS", "ABBR_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.DBFile != "abbr_helper.db" {
		t.Errorf("DBFile = %q, want abbr_helper.db", cfg.DBFile)
	}
	if cfg.RedisEnabled() {
		t.Error("RedisEnabled() should be false without ABBR_REDIS_ADDR")
	}
	if cfg.DisablePolicy != "explicit" {
		t.Errorf("DisablePolicy = %q, want explicit", cfg.DisablePolicy)
	}
	if len(cfg.AllowedExtensions) != 3 {
		t.Errorf("AllowedExtensions = %v", cfg.AllowedExtensions)
	}
	if cfg.MaxUploadSize != 250*1024*1024 {
		t.Errorf("MaxUploadSize = %d", cfg.MaxUploadSize)
	}
}

func TestLoadInvalidPolicyPanics(t *testing.T) {
	t.Setenv("ABBR_DISABLE_POLICY", "sometimes")
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked on an unknown policy")
		}
	}()
	Load()
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}
