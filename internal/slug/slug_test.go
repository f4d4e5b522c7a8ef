package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Test", "test"},
		{"Réunion Équipe", "reunion-equipe"},
		{"  Hello, World!  ", "hello-world"},
		{"", Fallback},
		{"!!!", Fallback},
	}
	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWithSuffix(t *testing.T) {
	if got := WithSuffix("test", 1); got != "test" {
		t.Errorf("n=1: got %q", got)
	}
	if got := WithSuffix("test", 2); got != "test-2" {
		t.Errorf("n=2: got %q", got)
	}
	if got := WithSuffix("test", 3); got != "test-3" {
		t.Errorf("n=3: got %q", got)
	}
}
