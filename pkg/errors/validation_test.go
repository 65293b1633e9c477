package errors

import (
	"strings"
	"testing"
)

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple filename", "level.json", false},
		{"nested path", "out/levels/level.json", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "level\x00.json", true},
		{"control character", "level\n.json", true},
		{"traversal", "../etc/passwd", true},
		{"embedded traversal", "out/../../etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLevelID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"uuid", "0a4c8b1e-9f1d-4f5a-8a2b-6c3d9e7f1a2b", false},
		{"short token", "abc123", false},
		{"empty", "", true},
		{"too long", strings.Repeat("x", 65), true},
		{"control character", "abc\x01", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLevelID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLevelID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}
