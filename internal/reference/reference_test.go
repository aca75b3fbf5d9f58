package reference_test

import (
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/shelfcount/internal/reference"
)

func TestDisplay(t *testing.T) {
	tbl := reference.Table{"12": "Central Library", "13": ""}
	if got := tbl.Display("12"); got != "Central Library" {
		t.Errorf("Display(12) = %q, want %q", got, "Central Library")
	}
	if got := tbl.Display("13"); got != "13" {
		t.Errorf("Display(13) = %q, want bare code for empty name", got)
	}
	if got := tbl.Display("99"); got != "99" {
		t.Errorf("Display(99) = %q, want %q", got, "99")
	}
}

func TestCodes_NumericOrder(t *testing.T) {
	tbl := reference.Table{"100": "a", "9": "b", "12": "c"}
	got := tbl.Codes()
	want := []string{"9", "12", "100"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Codes = %v, want %v", got, want)
		}
	}
}

func TestAddLibrary_RejectsNonNumeric(t *testing.T) {
	var s reference.Set
	if err := s.AddLibrary("abc", "x"); err == nil {
		t.Error("expected error for non-numeric library code")
	}
	if err := s.AddLibrary(" 14 ", " Branch "); err != nil {
		t.Fatalf("AddLibrary: %v", err)
	}
	if s.Libraries["14"] != "Branch" {
		t.Errorf("Libraries[14] = %q, want %q", s.Libraries["14"], "Branch")
	}
}

func TestAddLocation(t *testing.T) {
	var s reference.Set
	if err := s.AddLocation("", "x"); err == nil {
		t.Error("expected error for empty location code")
	}
	if err := s.AddLocation("AB", "Adult fiction"); err != nil {
		t.Fatalf("AddLocation: %v", err)
	}
	if s.Locations.Display("AB") != "Adult fiction" {
		t.Errorf("location not stored: %v", s.Locations)
	}
}

func TestLoad_Missing(t *testing.T) {
	s, err := reference.Load(filepath.Join(t.TempDir(), "none.yml"))
	if err != nil {
		t.Fatalf("Load missing: %v", err)
	}
	if s.Libraries == nil || s.Locations == nil {
		t.Error("Load missing should return initialized tables")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "references.yml")
	in := &reference.Set{
		Libraries: reference.Table{"12": "Central", "13": "North"},
		Locations: reference.Table{"AB": "Adult"},
	}
	if err := reference.Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := reference.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Libraries["13"] != "North" || out.Locations["AB"] != "Adult" {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestTable_WithCodes(t *testing.T) {
	base := reference.Table{"12": "Central"}
	got := base.WithCodes([]string{"12", "13", ""})
	if got.Display("12") != "Central" {
		t.Errorf("Display(12) = %q, want %q", got.Display("12"), "Central")
	}
	if name, ok := got.Name("13"); !ok || name != "" {
		t.Errorf("Name(13) = %q, %v, want unnamed entry", name, ok)
	}
	if got.Display("13") != "13" {
		t.Errorf("Display(13) = %q, want %q", got.Display("13"), "13")
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	if _, ok := base["13"]; ok {
		t.Error("WithCodes modified the receiver")
	}
}
