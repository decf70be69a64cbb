package domain

import "errors"

// Sentinel errors shared across services, repositories and the HTTP layer.
// Handlers map these onto status codes in one place (handlers.HandleError).
var (
	// ErrNotFound covers any user-scoped lookup that matched no row.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCiphertext is the single uniform decryption failure.
	// It deliberately does not distinguish a malformed envelope from a
	// failed authentication tag, so callers learn nothing about why.
	ErrInvalidCiphertext = errors.New("invalid or corrupted ciphertext")

	// ErrDuplicateCategory signals a (user_id, name) uniqueness violation.
	ErrDuplicateCategory = errors.New("category name already exists")
)

// Upload precondition failures. These reject the whole import request
// before any row is processed.
var (
	ErrNoFile         = errors.New("no file uploaded")
	ErrNotCSV         = errors.New("file must be CSV")
	ErrEmptyCSV       = errors.New("CSV is empty or invalid")
	ErrMissingColumns = errors.New("CSV header must include date,title,amount,type")
)

// IsUploadError reports whether err is one of the file-level import
// preconditions, all of which map to a 400 with nothing persisted.
func IsUploadError(err error) bool {
	return errors.Is(err, ErrNoFile) ||
		errors.Is(err, ErrNotCSV) ||
		errors.Is(err, ErrEmptyCSV) ||
		errors.Is(err, ErrMissingColumns)
}
