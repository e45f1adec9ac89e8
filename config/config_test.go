package config

import (
	"testing"
)

func TestGetEnvIntDefault(t *testing.T) {
	if v := getEnvInt("CRICKET_TEST_UNSET", 10); v != 10 {
		t.Errorf("Expected default 10 for unset variable, got %d", v)
	}
}

func TestGetEnvIntParsesValue(t *testing.T) {
	t.Setenv("CRICKET_TEST_INT", "25")

	if v := getEnvInt("CRICKET_TEST_INT", 10); v != 25 {
		t.Errorf("Expected 25, got %d", v)
	}
}

func TestGetEnvIntExplicitZero(t *testing.T) {
	t.Setenv("CRICKET_TEST_INT", "0")

	if v := getEnvInt("CRICKET_TEST_INT", 10); v != 0 {
		t.Errorf("Expected explicit 0 to be honored, got %d", v)
	}
}

func TestGetEnvIntMalformedValue(t *testing.T) {
	t.Setenv("CRICKET_TEST_INT", "not-a-number")

	if v := getEnvInt("CRICKET_TEST_INT", 10); v != 10 {
		t.Errorf("Expected default 10 for malformed value, got %d", v)
	}
}
