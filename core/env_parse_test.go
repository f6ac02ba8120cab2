package core

import (
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("PAINTLY_TEST_STR", "hello")
	if got := GetEnvOrDefault("PAINTLY_TEST_STR", "fallback"); got != "hello" {
		t.Errorf("GetEnvOrDefault = %q, want hello", got)
	}
	if got := GetEnvOrDefault("PAINTLY_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("GetEnvOrDefault = %q, want fallback", got)
	}
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("PAINTLY_TEST_INT", "42")
	t.Setenv("PAINTLY_TEST_BAD", "not-a-number")

	if got := ParseIntEnv("PAINTLY_TEST_INT", 7); got != 42 {
		t.Errorf("ParseIntEnv = %d, want 42", got)
	}
	if got := ParseIntEnv("PAINTLY_TEST_BAD", 7); got != 7 {
		t.Errorf("ParseIntEnv(bad) = %d, want default 7", got)
	}
	if got := ParseIntEnv("PAINTLY_TEST_UNSET", 7); got != 7 {
		t.Errorf("ParseIntEnv(unset) = %d, want default 7", got)
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"off", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Setenv("PAINTLY_TEST_BOOL", tt.value)
		if got := ParseBoolEnv("PAINTLY_TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
		}
	}
}

func TestParseDurationEnv(t *testing.T) {
	t.Setenv("PAINTLY_TEST_DUR", "90")
	if got := ParseDurationEnv("PAINTLY_TEST_DUR", 30); got != 90*time.Second {
		t.Errorf("ParseDurationEnv = %v, want 90s", got)
	}
	if got := ParseDurationEnv("PAINTLY_TEST_DUR_UNSET", 30); got != 30*time.Second {
		t.Errorf("ParseDurationEnv(unset) = %v, want 30s", got)
	}
}

func TestParseMillisEnv(t *testing.T) {
	t.Setenv("PAINTLY_TEST_MS", "1500")
	if got := ParseMillisEnv("PAINTLY_TEST_MS", 1000); got != 1500*time.Millisecond {
		t.Errorf("ParseMillisEnv = %v, want 1.5s", got)
	}
}
