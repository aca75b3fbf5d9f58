package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/config"
)

func valid() *config.Config {
	return &config.Config{
		Library: config.LibraryConfig{Code: "12"},
		DataDir: "/tmp/shelfcount",
		Policy:  config.PolicyConfig{LoanableCodes: []string{"0"}},
		Ingest:  config.IngestConfig{ChunkSize: 250},
		Store:   config.StoreConfig{Backend: "file"},
		Log:     config.LogConfig{Level: "info"},
	}
}

// --- Validate ---

func TestValidate_OK(t *testing.T) {
	if err := valid().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"non-numeric library", func(c *config.Config) { c.Library.Code = "AB" }, "library.code must be numeric"},
		{"bad backend", func(c *config.Config) { c.Store.Backend = "redis" }, "store.backend must be one of: file sqlite"},
		{"no loanable codes", func(c *config.Config) { c.Policy.LoanableCodes = nil }, "policy.loanable_codes"},
		{"zero chunk", func(c *config.Config) { c.Ingest.ChunkSize = 0 }, "ingest.chunk_size"},
		{"bad level", func(c *config.Config) { c.Log.Level = "loud" }, "log.level"},
		{"missing data dir", func(c *config.Config) { c.DataDir = "" }, "data_dir is required"},
		{"unknown column", func(c *config.Config) {
			c.Catalog.Columns = map[string][]string{"shelfmark": {"SIGNATUR"}}
		}, `unknown column "shelfmark"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestValidate_EmptyLibraryAllowed(t *testing.T) {
	cfg := valid()
	cfg.Library.Code = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

// --- Derived values ---

func TestCatalogColumns(t *testing.T) {
	cfg := valid()
	cfg.Catalog.Columns = map[string][]string{
		"barcode":       {"Mediennummer"},
		"location-code": {"Standort"},
	}
	cols := cfg.CatalogColumns()
	if got := cols[catalog.FieldBarcode]; len(got) != 1 || got[0] != "Mediennummer" {
		t.Errorf("barcode aliases = %v", got)
	}
	if got := cols[catalog.FieldLocationCode]; len(got) != 1 || got[0] != "Standort" {
		t.Errorf("location aliases = %v", got)
	}
}

func TestClassifyPolicy(t *testing.T) {
	cfg := valid()
	cfg.Policy.LoanableCodes = []string{"0", "2"}
	p := cfg.ClassifyPolicy()
	if !p.Loanable("2") || p.Loanable("4") {
		t.Errorf("policy = %+v", p)
	}
}

func TestPaths(t *testing.T) {
	cfg := valid()
	if got, want := cfg.CatalogDir(), filepath.Join("/tmp/shelfcount", "catalog"); got != want {
		t.Errorf("CatalogDir = %q, want %q", got, want)
	}
	if got, want := cfg.ReferencesPath(), filepath.Join("/tmp/shelfcount", "references.yml"); got != want {
		t.Errorf("ReferencesPath = %q, want %q", got, want)
	}
}

// --- Load / Save ---

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != "file" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "file")
	}
	if cfg.Ingest.ChunkSize != 250 {
		t.Errorf("Ingest.ChunkSize = %d, want 250", cfg.Ingest.ChunkSize)
	}
	if len(cfg.Policy.LoanableCodes) != 1 || cfg.Policy.LoanableCodes[0] != "0" {
		t.Errorf("LoanableCodes = %v, want [0]", cfg.Policy.LoanableCodes)
	}
	if strings.HasPrefix(cfg.DataDir, "~") {
		t.Errorf("DataDir not expanded: %q", cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := `library:
  code: "12"
  location: AB
store:
  backend: sqlite
catalog:
  columns:
    barcode: [Mediennummer]
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHELFCOUNT_LIBRARY_LOCATION", "CD")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Library.Code != "12" {
		t.Errorf("Library.Code = %q, want %q", cfg.Library.Code, "12")
	}
	if cfg.Library.Location != "CD" {
		t.Errorf("Library.Location = %q, want env override %q", cfg.Library.Location, "CD")
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "sqlite")
	}
	if got := cfg.CatalogColumns()[catalog.FieldBarcode]; len(got) != 1 {
		t.Errorf("barcode aliases = %v", got)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	want := valid()
	want.Library.Location = "AB"
	if err := config.Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Library != want.Library {
		t.Errorf("Library = %+v, want %+v", got.Library, want.Library)
	}
	if got.DataDir != want.DataDir {
		t.Errorf("DataDir = %q, want %q", got.DataDir, want.DataDir)
	}
}

func TestPath_Precedence(t *testing.T) {
	t.Setenv("SHELFCOUNT_CONFIG", "/etc/shelfcount.yml")
	if got := config.Path("/explicit.yml"); got != "/explicit.yml" {
		t.Errorf("Path = %q, want explicit", got)
	}
	if got := config.Path(""); got != "/etc/shelfcount.yml" {
		t.Errorf("Path = %q, want env", got)
	}
}
