package token_test

import (
	"testing"

	"mica/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	cases := []struct {
		ident string
		kind  token.Kind
		ok    bool
	}{
		{"module", token.KwModule, true},
		{"fn", token.KwFn, true},
		{"spawn", token.KwSpawn, true},
		{"using", token.KwUsing, true},
		{"true", token.BoolLit, true},
		{"false", token.BoolLit, true},
		{"Module", 0, false},
		{"channel", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		kind, ok := token.LookupKeyword(tc.ident)
		if ok != tc.ok {
			t.Errorf("LookupKeyword(%q) ok = %v, want %v", tc.ident, ok, tc.ok)
			continue
		}
		if ok && kind != tc.kind {
			t.Errorf("LookupKeyword(%q) = %v, want %v", tc.ident, kind, tc.kind)
		}
	}
}

func TestKindString(t *testing.T) {
	if got := token.Arrow.String(); got != "'->'" {
		t.Errorf("Arrow.String() = %q", got)
	}
	if got := token.KwMatch.String(); got != "match" {
		t.Errorf("KwMatch.String() = %q", got)
	}
}
