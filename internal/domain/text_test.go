package domain

import (
	"reflect"
	"strings"
	"testing"
)

func TestLooksLikeAbbreviation(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"CPU", true},
		{"Cpu", false},
		{"AbC", true}, // 2 of 3 uppercase
		{"ABcd", true},
		{"ABcde", false},
		{"3GPP", true},
		{"USB-C", true},
		{"A", false},
		{"", false},
		{"ok", false},
		{"OK", true},
		{"ЦБ", true},
		{"ЦБр", true},
		{"Цбр", false},
		{"A1b2", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := LooksLikeAbbreviation(tt.token); got != tt.want {
				t.Errorf("LooksLikeAbbreviation(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty",
			input: "",
			want:  []string{},
		},
		{
			name:  "delimiters become spaces",
			input: "The CPU, and GPU/NPU (are) OK!",
			want:  []string{"The", "CPU", "and", "GPU", "NPU", "are", "OK"},
		},
		{
			name:  "guillemets and quotes",
			input: "«ЦБ» said \"RF\" 'ok'",
			want:  []string{"ЦБ", "said", "RF", "ok"},
		},
		{
			name:  "newlines and tabs",
			input: "USB-C\nHDMI\tDP",
			want:  []string{"USB", "C", "HDMI", "DP"},
		},
		{
			name:  "only delimiters",
			input: ".,;:-+=*",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeIdempotent(t *testing.T) {
	inputs := []string{
		"The CPU and GPU are OK",
		"a.b,c/d\\e!f@g?h:i;j-k+l=m\nn(o)p\"q'r«s»t*u",
		"  spaced   out\t\ttext  ",
	}
	for _, in := range inputs {
		first := Tokenize(in)
		second := Tokenize(strings.Join(first, " "))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Tokenize not idempotent for %q: %v vs %v", in, first, second)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	// и + combining breve must compose to the single rune й.
	decomposed := "\u0438\u0306"
	if got := NormalizeName("  " + decomposed + "  "); got != "\u0439" {
		t.Errorf("NormalizeName() = %q, want %q", got, "\u0439")
	}
}
