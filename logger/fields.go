package logger

// Standard field names for consistent structured logging across tscli.
const (
	FieldComponent = "component"
	FieldFile      = "file"
	FieldLine      = "line"
	FieldFunction  = "function"
	FieldParameter = "parameter"
	FieldMember    = "member"
	FieldTag       = "tag"
	FieldType      = "type"
	FieldCount     = "count"
	FieldError     = "error"
	FieldOutput    = "output"
	FieldReason    = "reason"
	FieldLibrary   = "library"
	FieldVersion   = "version"
)
