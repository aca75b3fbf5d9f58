package catalog

// Record is one row of an imported catalog extract.
type Record struct {
	Barcode              string `json:"barcode" yaml:"barcode"`
	OwnerLibraryCode     string `json:"library_code" yaml:"library_code"`
	LocationCode         string `json:"location_code" yaml:"location_code"`
	LoanEligibilityCode  string `json:"loan_code" yaml:"loan_code"`
	LoanEligibilityText  string `json:"loan_text,omitempty" yaml:"loan_text,omitempty"`
	CollectionStatusCode string `json:"status_code" yaml:"status_code"`
	NoticeCode           string `json:"notice_code,omitempty" yaml:"notice_code,omitempty"`
	DueDate              string `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Title                string `json:"title,omitempty" yaml:"title,omitempty"`
	MaterialType         string `json:"material_type,omitempty" yaml:"material_type,omitempty"`
}

// ActiveStatus is the collection status code of an item that is in the
// collection. Any other code means withdrawn or transferred.
const ActiveStatus = "0"

// Active reports whether the record is part of the active collection.
func (r Record) Active() bool {
	return r.CollectionStatusCode == ActiveStatus
}

// OnLoan reports whether the record carries a due date.
func (r Record) OnLoan() bool {
	return r.DueDate != ""
}

// Field names a logical catalog column.
type Field string

const (
	FieldBarcode      Field = "BARCODE"
	FieldLibraryCode  Field = "LIBRARY_CODE"
	FieldLocationCode Field = "LOCATION_CODE"
	FieldLoanCode     Field = "LOAN_CODE"
	FieldLoanText     Field = "LOAN_TEXT"
	FieldStatusCode   Field = "STATUS_CODE"
	FieldNoticeCode   Field = "NOTICE_CODE"
	FieldDueDate      Field = "DUE_DATE"
	FieldTitle        Field = "TITLE"
	FieldMaterialType Field = "MATERIAL_TYPE"
)

// Fields lists every logical column in export order.
var Fields = []Field{
	FieldBarcode,
	FieldLibraryCode,
	FieldLocationCode,
	FieldLoanCode,
	FieldLoanText,
	FieldStatusCode,
	FieldNoticeCode,
	FieldDueDate,
	FieldTitle,
	FieldMaterialType,
}

// set assigns a cell value to the field it belongs to.
func (r *Record) set(f Field, v string) {
	switch f {
	case FieldBarcode:
		r.Barcode = v
	case FieldLibraryCode:
		r.OwnerLibraryCode = v
	case FieldLocationCode:
		r.LocationCode = v
	case FieldLoanCode:
		r.LoanEligibilityCode = v
	case FieldLoanText:
		r.LoanEligibilityText = v
	case FieldStatusCode:
		r.CollectionStatusCode = v
	case FieldNoticeCode:
		r.NoticeCode = v
	case FieldDueDate:
		r.DueDate = v
	case FieldTitle:
		r.Title = v
	case FieldMaterialType:
		r.MaterialType = v
	}
}
