package barcode_test

import (
	"testing"

	"github.com/blackwell-systems/shelfcount/internal/barcode"
)

func TestExpectedPrefix(t *testing.T) {
	cases := []struct{ code, want string }{
		{"12", "1012"},
		{"013", "1013"},
		{" 7 ", "1007"},
		{"abc", "1000"},
		{"", "1000"},
	}
	for _, c := range cases {
		if got := barcode.ExpectedPrefix(c.code); got != c.want {
			t.Errorf("ExpectedPrefix(%q) = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		autoCmp bool
	}{
		{"complete", "101200000123", "101200000123", false},
		{"scanner noise", " 1012-0000-0123\r\n", "101200000123", false},
		{"too long", "1012000001239999", "101200000123", false},
		{"thirteen digits", "1012000001234", "101200000123", false},
		{"short suffix", "12345", "101200012345", true},
		{"single digit", "7", "101200000007", true},
		{"eleven digits", "12345678901", "101212345678901", true},
		{"no digits", "abc-/", "", false},
		{"empty", "", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := barcode.Normalize(c.raw, "12")
			if got.Barcode != c.want {
				t.Errorf("Normalize(%q).Barcode = %q, want %q", c.raw, got.Barcode, c.want)
			}
			if got.AutoCompleted != c.autoCmp {
				t.Errorf("Normalize(%q).AutoCompleted = %v, want %v", c.raw, got.AutoCompleted, c.autoCmp)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, b := range []string{"101200000123", "101299999999", "101200000000"} {
		first := barcode.Normalize(b, "12")
		second := barcode.Normalize(first.Barcode, "12")
		if first.Barcode != b || first.AutoCompleted {
			t.Errorf("Normalize(%q) = %+v, want unchanged", b, first)
		}
		if second != first {
			t.Errorf("Normalize not idempotent for %q: %+v then %+v", b, first, second)
		}
	}
}

func TestNormalize_ForeignCompleteBarcodeUntouched(t *testing.T) {
	got := barcode.Normalize("101300000001", "12")
	if got.Barcode != "101300000001" || got.AutoCompleted {
		t.Errorf("Normalize = %+v, want foreign barcode unchanged", got)
	}
}

func TestResultEmpty(t *testing.T) {
	if !barcode.Normalize("---", "12").Empty() {
		t.Error("digitless input should be empty")
	}
	if barcode.Normalize("1", "12").Empty() {
		t.Error("single digit should not be empty")
	}
}
