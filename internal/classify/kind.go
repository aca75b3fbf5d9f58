package classify

import "fmt"

// Kind is the closed set of warning categories a scan can receive.
type Kind int

const (
	InvalidStructure Kind = iota + 1
	LocationMismatch
	NotLoanable
	NotInCollection
	OnLoan
	WrongLibrary
	NotFound
	AutoCompletedNotFound
	Duplicate
)

// Kinds lists every kind in report order.
var Kinds = []Kind{
	WrongLibrary,
	LocationMismatch,
	NotLoanable,
	NotInCollection,
	OnLoan,
	NotFound,
	AutoCompletedNotFound,
	InvalidStructure,
	Duplicate,
}

var kindNames = map[Kind]string{
	InvalidStructure:      "invalid_structure",
	LocationMismatch:      "location_mismatch",
	NotLoanable:           "not_loanable",
	NotInCollection:       "not_in_collection",
	OnLoan:                "on_loan",
	WrongLibrary:          "wrong_library",
	NotFound:              "not_found",
	AutoCompletedNotFound: "auto_completed_not_found",
	Duplicate:             "duplicate",
}

var kindLabels = map[Kind]string{
	InvalidStructure:      "Invalid barcode",
	LocationMismatch:      "Wrong location",
	NotLoanable:           "Not loanable",
	NotInCollection:       "Not in collection",
	OnLoan:                "On loan",
	WrongLibrary:          "Wrong library",
	NotFound:              "Not in list",
	AutoCompletedNotFound: "Auto-completed, not in list",
	Duplicate:             "Duplicate",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Label is the human-readable category name.
func (k Kind) Label() string {
	if s, ok := kindLabels[k]; ok {
		return s
	}
	return k.String()
}

// ParseKind resolves a kind from its serialized name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown warning kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown warning kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Tone identifies the notification signal requested for a scan.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneMulti   Tone = "multi"
)

// Tone is the distinguished signal of a single warning of this kind.
func (k Kind) Tone() Tone {
	return Tone(k.String())
}

// ToneFor selects the one signal requested for a scan: success when clean,
// the kind's own tone for a single warning, the composite tone otherwise.
func ToneFor(warnings []Warning) Tone {
	switch len(warnings) {
	case 0:
		return ToneSuccess
	case 1:
		return warnings[0].Kind.Tone()
	default:
		return ToneMulti
	}
}
