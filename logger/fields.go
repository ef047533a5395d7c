package logger

// Standard field names for structured logging across opgen.
// Use these constants instead of raw strings to keep keys consistent.
const (
	FieldStage      = "stage"
	FieldTarget     = "target"
	FieldTemplate   = "template"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldCount      = "count"
	FieldLines      = "lines"
	FieldDurationMS = "duration_ms"
	FieldError      = "error"
	FieldIdent      = "ident"
	FieldLine       = "line"
)
