package csvimport

import (
	"errors"
	"fmt"
	"strings"
)

// Row-level error codes surfaced to the import result.
const (
	ErrCodeImportValidation      = "ERR_IMPORT_VALIDATION"
	ErrCodeImportRequiredField   = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeImportInvalidType     = "ERR_IMPORT_INVALID_TYPE"
	ErrCodeImportInvalidLength   = "ERR_IMPORT_INVALID_LENGTH"
	ErrCodeImportInvalidRange    = "ERR_IMPORT_INVALID_RANGE"
	ErrCodeImportPatternMismatch = "ERR_IMPORT_PATTERN_MISMATCH"
	ErrCodeImportDuplicateInFile = "ERR_IMPORT_DUPLICATE_IN_FILE"
)

// File-level failures that abort the whole import.
var (
	// ErrEmptyFile is returned when the uploaded file has no content
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")
)

// RowError pins a problem to a row and column of the uploaded file.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a RowError without the offending value.
func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// NewRowErrorWithValue creates a RowError carrying the offending value.
func NewRowErrorWithValue(row int, column, code, message, value string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message, Value: value}
}

// ErrorCollection accumulates row errors up to a cap, so a completely
// broken file of thousands of rows does not produce a response of
// thousands of errors. The total count keeps counting past the cap.
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a collection capped at maxErrors
// (100 when maxErrors <= 0).
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0, maxErrors),
		maxErrors: maxErrors,
	}
}

// Add records an error, dropping it past the cap but still counting it.
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequiredError records a missing required field.
func (ec *ErrorCollection) AddRequiredError(row int, column string) {
	ec.Add(NewRowError(row, column, ErrCodeImportRequiredField,
		fmt.Sprintf("field '%s' is required", column)))
}

// AddTypeError records a value that does not parse as its declared type.
func (ec *ErrorCollection) AddTypeError(row int, column, expectedType, value string) {
	ec.Add(NewRowErrorWithValue(row, column, ErrCodeImportInvalidType,
		fmt.Sprintf("expected %s", expectedType), value))
}

// AddLengthError records a value outside its length bounds.
func (ec *ErrorCollection) AddLengthError(row int, column string, minLen, maxLen int) {
	msg := fmt.Sprintf("length must be between %d and %d", minLen, maxLen)
	switch {
	case minLen == 0:
		msg = fmt.Sprintf("length must be at most %d", maxLen)
	case maxLen == 0:
		msg = fmt.Sprintf("length must be at least %d", minLen)
	}
	ec.Add(NewRowError(row, column, ErrCodeImportInvalidLength, msg))
}

// AddRangeError records a numeric value outside its bounds.
func (ec *ErrorCollection) AddRangeError(row int, column string, min, max float64) {
	ec.Add(NewRowError(row, column, ErrCodeImportInvalidRange,
		fmt.Sprintf("value must be between %.2f and %.2f", min, max)))
}

// AddPatternError records a value that fails its pattern rule.
func (ec *ErrorCollection) AddPatternError(row int, column, pattern, value string) {
	ec.Add(NewRowErrorWithValue(row, column, ErrCodeImportPatternMismatch,
		fmt.Sprintf("value does not match pattern '%s'", pattern), value))
}

// Errors returns the collected errors, capped at the limit.
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// Count returns how many errors were kept.
func (ec *ErrorCollection) Count() int {
	return len(ec.errors)
}

// TotalCount returns how many errors occurred, kept or not.
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors reports whether anything went wrong.
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated reports whether errors were dropped past the cap.
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}

// Clear resets the collection for reuse.
func (ec *ErrorCollection) Clear() {
	ec.errors = ec.errors[:0]
	ec.totalCount = 0
}

func (ec *ErrorCollection) String() string {
	if !ec.HasErrors() {
		return "no errors"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s) found", ec.totalCount)
	if ec.IsTruncated() {
		fmt.Fprintf(&sb, " (showing first %d)", ec.maxErrors)
	}
	sb.WriteString(":\n")
	for _, err := range ec.errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}
