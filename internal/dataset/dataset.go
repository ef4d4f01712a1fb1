// Package dataset defines the page-record output unit and its feature
// schema, plus materialization into the hub imagefolder layout.
package dataset

// Record is one physical page of an exported document.
type Record struct {
	Image    string `json:"image"` // path to the page image, resolved against the bundle dir
	DocID    int64  `json:"doc_id"`
	Sequence int    `json:"sequence"` // ORDER position, not necessarily contiguous
	Alto     string `json:"alto"`     // raw OCR layer, "" when the page has none
	Page     string `json:"page"`     // curated layer with tool metadata stripped, "" when absent
}

// FieldType is a dataset feature type as declared to the hub.
type FieldType string

const (
	FieldImage  FieldType = "image"
	FieldInt64  FieldType = "int64"
	FieldInt16  FieldType = "int16"
	FieldString FieldType = "string"
)

// Field is one column of the dataset schema.
type Field struct {
	Name string    `json:"name"`
	Type FieldType `json:"dtype"`
}

// Features returns the static five-field schema consumed by the publisher.
func Features() []Field {
	return []Field{
		{Name: "image", Type: FieldImage},
		{Name: "doc_id", Type: FieldInt64},
		{Name: "sequence", Type: FieldInt16},
		{Name: "alto", Type: FieldString},
		{Name: "page", Type: FieldString},
	}
}
