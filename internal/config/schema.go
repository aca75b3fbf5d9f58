package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/classify"
	"github.com/go-playground/validator/v10"
)

// Config is the top-level shelfcount configuration.
type Config struct {
	Library LibraryConfig `mapstructure:"library" yaml:"library"`
	DataDir string        `mapstructure:"data_dir" yaml:"data_dir" validate:"required"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog,omitempty"`
	Policy  PolicyConfig  `mapstructure:"policy" yaml:"policy"`
	Ingest  IngestConfig  `mapstructure:"ingest" yaml:"ingest"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// LibraryConfig selects the library being counted and an optional shelf
// location filter.
type LibraryConfig struct {
	Code     string `mapstructure:"code" yaml:"code" validate:"omitempty,numeric"`
	Location string `mapstructure:"location" yaml:"location,omitempty"`
}

// CatalogConfig holds extra header spellings per catalog column.
type CatalogConfig struct {
	Columns map[string][]string `mapstructure:"columns" yaml:"columns,omitempty"`
}

// PolicyConfig holds the institution's classification rules.
type PolicyConfig struct {
	LoanableCodes []string `mapstructure:"loanable_codes" yaml:"loanable_codes" validate:"min=1,dive,required"`
}

// IngestConfig tunes bulk ingestion.
type IngestConfig struct {
	ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size" validate:"gte=1,lte=100000"`
}

// StoreConfig selects the session persistence backend.
type StoreConfig struct {
	Backend    string `mapstructure:"backend" yaml:"backend" validate:"oneof=file sqlite"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path,omitempty"`
}

// LogConfig sets the structured log level.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

var validate = newValidator()

// newValidator reports fields by their config key rather than Go name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("mapstructure")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks field constraints and that every column alias names a
// known catalog field.
func (c *Config) Validate() error {
	var errs []error
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, e := range verrs {
			errs = append(errs, fmt.Errorf("%s %s", fieldPath(e), friendlyMessage(e)))
		}
	}
	for key := range c.Catalog.Columns {
		if !knownField(catalog.Field(catalog.FoldHeader(key))) {
			errs = append(errs, fmt.Errorf("catalog.columns: unknown column %q", key))
		}
	}
	return errors.Join(errs...)
}

// CatalogColumns returns the configured aliases keyed by catalog field.
func (c *Config) CatalogColumns() catalog.Columns {
	cols := make(catalog.Columns, len(c.Catalog.Columns))
	for key, aliases := range c.Catalog.Columns {
		f := catalog.Field(catalog.FoldHeader(key))
		cols[f] = append(cols[f], aliases...)
	}
	return cols
}

// ClassifyPolicy returns the classification rules.
func (c *Config) ClassifyPolicy() classify.Policy {
	return classify.Policy{LoanableCodes: c.Policy.LoanableCodes}
}

// CatalogDir holds the imported catalog and its metadata.
func (c *Config) CatalogDir() string {
	return filepath.Join(c.DataDir, "catalog")
}

// ReferencesPath is the library and location name table file.
func (c *Config) ReferencesPath() string {
	return filepath.Join(c.DataDir, "references.yml")
}

func knownField(f catalog.Field) bool {
	for _, known := range catalog.Fields {
		if f == known {
			return true
		}
	}
	return false
}

// fieldPath turns a namespace like "Config.store.backend" into the config
// key "store.backend".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "numeric":
		return "must be numeric"
	case "oneof":
		return "must be one of: " + e.Param()
	case "min":
		return "needs at least " + e.Param() + " entries"
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}
