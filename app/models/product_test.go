package models

import "testing"

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PROD-ABC-123", "prod-abc-123"},
		{"  Ansiedade Sob Controle  ", "ansiedade-sob-controle"},
		{"weird__ID??42", "weird-id-42"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := DeriveSlug(tt.in); got != tt.want {
			t.Fatalf("DeriveSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
