package language

import "testing"

func TestToISO2(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"es", "es"},
		{"spa", "es"},
		{"Spanish", "es"},
		{"fre", "fr"},
		{"fra", "fr"},
		{" EN ", "en"},
		{"xx", "xx"},
		{"unknownese", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ToISO2(tc.in); got != tc.want {
			t.Errorf("ToISO2(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCollaboratorCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"es", "es"},
		{"es-MX", "es"},
		{"pt-BR", "pt"},
		{"Spanish", "es"},
		{"zz-ZZ", "zz"},
		{"tlh", "tlh"},
	}
	for _, tc := range cases {
		if got := CollaboratorCode(tc.in); got != tc.want {
			t.Errorf("CollaboratorCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"es", "Spanish"},
		{"deu", "German"},
		{"", "Unknown"},
		{"xq", "XQ"},
	}
	for _, tc := range cases {
		if got := DisplayName(tc.in); got != tc.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
