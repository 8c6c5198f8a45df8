package model

import "github.com/google/uuid"

// ImportErrorType classifies where a row-level problem originated.
type ImportErrorType string

const (
	ErrTypeValidation      ImportErrorType = "validation"
	ErrTypeDatabase        ImportErrorType = "database"
	ErrTypeAssetResolution ImportErrorType = "asset_resolution"
)

// Severity of an import error. A batch may complete with unresolved warnings
// but never with unresolved errors.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ImportError is a row-level problem accumulated during any pipeline step.
// Errors are never silently dropped.
type ImportError struct {
	ID        int64
	BatchID   uuid.UUID
	RowNumber int64

	Type         ImportErrorType
	Severity     Severity
	Field        string
	Message      string
	SuggestedFix string
	Resolved     bool
}
