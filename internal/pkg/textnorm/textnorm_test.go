package textnorm

import "testing"

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Sí ", "si"},
		{"Canalización", "canalizacion"},
		{"Reading   level", "reading level"},
		{"", ""},
		{"ÁÉÍÓÚ ñ", "aeiou n"},
	}
	for _, tc := range cases {
		if got := Fold(tc.in); got != tc.want {
			t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Manejo de Dinero", "manejo de  dinero") {
		t.Fatalf("expected equal")
	}
	if Equal("Lectura", "Escritura") {
		t.Fatalf("expected not equal")
	}
}
