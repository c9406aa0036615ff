package cmd

import "testing"

func TestEllipsize(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 18, "short"},
		{"exactly eighteen!!", 18, "exactly eighteen!!"},
		{"a name that runs well past the cap", 18, "a name that runs w.."},
		{"", 18, ""},
		// Multi-byte runes must not be split mid-sequence.
		{"रसोई और किराने का सामान", 18, "रसोई और किराने का .."},
		{"日本語のカテゴリー", 5, "日本語のカ.."},
	}
	for _, tc := range cases {
		if got := ellipsize(tc.in, tc.n); got != tc.want {
			t.Errorf("ellipsize(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
