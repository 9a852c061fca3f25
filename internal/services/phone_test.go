package services

import "testing"

func TestFormatPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0912345678", "+251912345678"},
		{"912345678", "+251912345678"},
		{"251912345678", "+251912345678"},
		{"+251912345678", "+251912345678"},
		{"+251 91-234-5678", "+251912345678"},
		{"(091) 234 5678", "+251912345678"},
	}
	for _, tc := range cases {
		if got := FormatPhone(tc.in); got != tc.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	valid := []string{"+251912345678", "+251700000000"}
	for _, p := range valid {
		if !IsValidPhone(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}
	invalid := []string{
		"+25191234567",    // too short
		"+2519123456789",  // too long
		"251912345678",    // no plus
		"+252912345678",   // wrong country code
		"+251912345678a",  // trailing junk
		"",
	}
	for _, p := range invalid {
		if IsValidPhone(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}
