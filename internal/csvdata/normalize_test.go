package csvdata

import (
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1,234.56", 1234.56},
		{"  42 ", 42},
		{"-0.5", -0.5},
		{"+1.2%", 1.2},
		{"", 0},
		{"abc", 0},
		{"--", 0},
		{"NaN", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseNumber(tt.input); got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"113/05/20", "2024-05-20"},
		{"2024-05-20", "2024-05-20"},
		{"2024/5/2", "2024-05-02"},
		{"114-1-3", "2025-01-03"},
		{" 2025/12/31 ", "2025-12-31"},
		{"2025年1月", "2025年1月"},
		{"2025/01", "2025/01"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeDate(tt.input); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsDateHeader(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2025-01-01", true},
		{"114/02/01", true},
		{"2025/13/01", false},
		{"ETF代碼", false},
		{"規模", false},
	}

	for _, tt := range tests {
		if got := IsDateHeader(tt.input); got != tt.want {
			t.Errorf("IsDateHeader(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
