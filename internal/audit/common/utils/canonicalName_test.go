package utils

import "testing"

func TestCanonicalDNSName(t *testing.T) {
	cases := map[string]string{
		"Example.COM":        "example.com",
		"  example.com  ":    "example.com",
		"example.com.":       "example.com",
		"example.com...":     "example.com",
		"SUB.Example.Org. ":  "sub.example.org",
		"":                   "",
	}
	for in, want := range cases {
		if got := CanonicalDNSName(in); got != want {
			t.Errorf("CanonicalDNSName(%q) = %q, want %q", in, got, want)
		}
	}
}
