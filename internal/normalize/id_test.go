package normalize

import "testing"

func TestPaddedID(t *testing.T) {
	cases := map[string]string{
		"1":    "P001",
		"42":   "P042",
		"573":  "P573",
		"1234": "P1234",
		" 9 ":  "P009",
	}
	for serial, want := range cases {
		if got := PaddedID(serial); got != want {
			t.Fatalf("serial %q: expected %s, got %s", serial, want, got)
		}
	}
}

func TestPrefixedID(t *testing.T) {
	if got := PrefixedID("17"); got != "CSV17" {
		t.Fatalf("expected CSV17, got %s", got)
	}
}

func TestFormatterFor(t *testing.T) {
	f, err := FormatterFor(FormatPrefixed)
	if err != nil || f("3") != "CSV3" {
		t.Fatalf("expected prefixed formatter, err=%v", err)
	}
	f, err = FormatterFor("")
	if err != nil || f("3") != "P003" {
		t.Fatalf("expected padded default, err=%v", err)
	}
	if _, err := FormatterFor("uuid"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
