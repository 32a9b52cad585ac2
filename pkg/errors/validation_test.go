package errors

import (
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "main", false},
		{"valid with dash", "left-axes", false},
		{"valid with underscore", "grid_overlay", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 65)), true},
		{"space", "my layer", true},
		{"tab", "a\tb", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "charts/prices.toml", false},
		{"valid absolute", "/tmp/prices.toml", false},
		{"valid dotted name", "my..chart.toml", false},

		{"empty", "", true},
		{"traversal", "../secret.toml", true},
		{"nested traversal", "charts/../../etc/passwd", true},
		{"windows traversal", "charts\\..\\x.toml", true},
		{"null byte", "chart\x00.toml", true},
		{"too long", string(make([]byte, 501)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"typical", 800, 600, false},
		{"minimum", 1, 1, false},
		{"max", MaxDimension, MaxDimension, false},
		{"zero width", 0, 600, true},
		{"negative height", 800, -1, true},
		{"too wide", MaxDimension + 1, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%d, %d) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
		})
	}
}
