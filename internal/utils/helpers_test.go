package utils_test

import (
	"testing"

	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

func TestFormatInt64(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0"},
		{42, "42"},
		{-7, "-7"},
		{9223372036854775807, "9223372036854775807"},
	}

	for _, tt := range tests {
		if got := utils.FormatInt64(tt.input); got != tt.want {
			t.Errorf("FormatInt64(%d) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"Shorter than max", "short", 10, "short"},
		{"Exactly max", "exactlyten", 10, "exactlyten"},
		{"Needs truncation", "this is a long string", 10, "this is..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := utils.TruncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"Standard email", "user@example.com", "u**r@example.com"},
		{"Short user part", "ab@example.com", "ab@example.com"},
		{"Not an email", "not-an-email", "not-an-email"},
		{"Two at signs", "a@b@c", "a@b@c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := utils.MaskEmail(tt.email); got != tt.want {
				t.Errorf("MaskEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestSanitizeKeys(t *testing.T) {
	data := map[string]interface{}{
		"username":      "testuser",
		"password":      "secret-value",
		"password_hash": "bcrypt-hash",
		"token":         "reset-token",
		"nested": map[string]interface{}{
			"secret": "nested-secret",
			"public": "visible",
		},
		"items": []map[string]interface{}{
			{"token_hash": "stored-hash", "id": 1},
		},
	}

	result := utils.SanitizeKeys(data)

	if result["username"] != "testuser" {
		t.Error("Expected non-sensitive key to pass through")
	}

	for _, key := range []string{"password", "password_hash", "token"} {
		if result[key] != "[REDACTED]" {
			t.Errorf("Expected %s to be redacted, got %v", key, result[key])
		}
	}

	nested := result["nested"].(map[string]interface{})
	if nested["secret"] != "[REDACTED]" {
		t.Error("Expected nested secret to be redacted")
	}
	if nested["public"] != "visible" {
		t.Error("Expected nested public value to pass through")
	}

	items := result["items"].([]map[string]interface{})
	if items[0]["token_hash"] != "[REDACTED]" {
		t.Error("Expected token_hash in map slice to be redacted")
	}
	if items[0]["id"] != 1 {
		t.Error("Expected id in map slice to pass through")
	}
}

func TestContainsString(t *testing.T) {
	slice := []string{"alpha", "beta", "gamma"}

	if !utils.ContainsString(slice, "beta") {
		t.Error("Expected ContainsString to find beta")
	}
	if utils.ContainsString(slice, "delta") {
		t.Error("Expected ContainsString not to find delta")
	}
	if utils.ContainsString(nil, "anything") {
		t.Error("Expected ContainsString on nil slice to be false")
	}
}
