package classify

import (
	"fmt"
	"strings"
)

// Warning is one classification outcome attached to a scan event.
type Warning struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
	// LibraryCode names the owning library of a WrongLibrary warning.
	LibraryCode string `json:"library_code,omitempty" yaml:"library_code,omitempty"`
}

func (w Warning) String() string {
	return w.Message
}

// Has reports whether any warning in ws is of kind k.
func Has(ws []Warning, k Kind) bool {
	for _, w := range ws {
		if w.Kind == k {
			return true
		}
	}
	return false
}

// Join renders warnings as a single line of messages.
func Join(ws []Warning) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = w.Message
	}
	return strings.Join(parts, "; ")
}

func duplicateWarning() Warning {
	return Warning{Kind: Duplicate, Message: "Already scanned in this session"}
}

func invalidStructureWarning(barcode string) Warning {
	return Warning{Kind: InvalidStructure, Message: fmt.Sprintf("Barcode %s does not match any known library", barcode)}
}

func wrongLibraryWarning(code, name string) Warning {
	return Warning{Kind: WrongLibrary, Message: "Belongs to another library: " + name, LibraryCode: code}
}

func locationMismatchWarning(actual, expected string) Warning {
	return Warning{Kind: LocationMismatch, Message: fmt.Sprintf("Location %s, expected %s", actual, expected)}
}

func notLoanableWarning(text, code string) Warning {
	detail := text
	if detail == "" {
		detail = "code " + code
	}
	return Warning{Kind: NotLoanable, Message: "Not loanable: " + detail}
}

func notInCollectionWarning(status string) Warning {
	return Warning{Kind: NotInCollection, Message: fmt.Sprintf("Withdrawn or transferred (status %s)", status)}
}

// OnLoanWarning marks an item that is out on loan.
func OnLoanWarning(dueDate string) Warning {
	if dueDate == "" {
		return Warning{Kind: OnLoan, Message: "On loan"}
	}
	return Warning{Kind: OnLoan, Message: "On loan, due " + dueDate}
}

func notFoundWarning() Warning {
	return Warning{Kind: NotFound, Message: "Not in catalog list"}
}

func autoCompletedNotFoundWarning(barcode string) Warning {
	return Warning{Kind: AutoCompletedNotFound, Message: fmt.Sprintf("Completed to %s, not in catalog list", barcode)}
}
