package utils

import "testing"

func TestCalculateDataMD5(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "", expected: "d41d8cd98f00b204e9800998ecf8427e"},
		{input: "hello", expected: "5d41402abc4b2a76b9719d911017c592"},
	}

	for _, tt := range tests {
		if got := CalculateDataMD5([]byte(tt.input)); got != tt.expected {
			t.Errorf("CalculateDataMD5(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}
