package domain

// CredentialCipher is the contract for at-rest protection of stored
// passwords. Implementations must be safe for concurrent use: both calls
// are pure functions of their input and the process-wide key.
type CredentialCipher interface {
	// Encrypt returns a fresh iv:tag:ciphertext envelope for the plaintext.
	// Two calls on the same input never produce the same envelope.
	Encrypt(plaintext string) (string, error)

	// Decrypt reverses Encrypt. Any malformed or tampered envelope fails
	// with ErrInvalidCiphertext, with no detail about why.
	Decrypt(envelope string) (string, error)
}
