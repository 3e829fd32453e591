package langs

import "testing"

func TestContains(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"en", true},
		{"es", true},
		{"zh-TW", true},
		{"fr-CA", true},
		{"no", true},
		{"xx", false},
		{"", false},
		{"EN", false}, // codes are case-sensitive
		{"es_MX", false},
		{"es-MX", true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := Supported.Contains(tt.code); got != tt.expected {
				t.Errorf("Contains(%q) = %v, want %v", tt.code, got, tt.expected)
			}
		})
	}
}

func TestCodesSortedAndComplete(t *testing.T) {
	codes := Supported.Codes()

	if len(codes) != len(Supported) {
		t.Fatalf("Codes() returned %d codes, want %d", len(codes), len(Supported))
	}

	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("Codes() not sorted: %q before %q", codes[i-1], codes[i])
		}
	}
}

func TestCustomSet(t *testing.T) {
	small := Set{"en": "English", "es": "Spanish"}

	if !small.Contains("en") {
		t.Error("custom set should contain en")
	}
	if small.Contains("fr") {
		t.Error("custom set should not contain fr")
	}
}
