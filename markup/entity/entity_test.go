package entity

import "testing"

func TestLookup(t *testing.T) {
	cases := []struct {
		name string
		want rune
	}{
		{"amp", '&'},
		{"lt", '<'},
		{"gt", '>'},
		{"quot", '"'},
		{"nbsp", '\u00a0'},
		{"mdash", '—'},
		{"euro", '€'},
		{"alpha", 'α'},
		{"Omega", 'Ω'},
	}
	for _, c := range cases {
		got, ok := Lookup(c.name)
		if !ok {
			t.Errorf("entity %s not found", c.name)
			continue
		}
		if got != c.want {
			t.Errorf("entity %s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestNamesAreCaseSensitive(t *testing.T) {
	if _, ok := Lookup("AMP"); ok {
		t.Error("AMP should not resolve, entity names are case-sensitive")
	}
	// Omega and omega are distinct entities
	upper, _ := Lookup("Omega")
	lower, _ := Lookup("omega")
	if upper == lower {
		t.Error("Omega and omega should be different code points")
	}
}

func TestUnknown(t *testing.T) {
	if Known("bogus") {
		t.Error("bogus should not be a known entity")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all["amp"] = 'X'
	if r, _ := Lookup("amp"); r != '&' {
		t.Error("mutating the copy changed the table")
	}
}
