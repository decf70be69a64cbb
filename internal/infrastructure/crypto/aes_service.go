// Package crypto implements the at-rest protection of stored credential
// passwords: AES-256-GCM with a 16-byte IV and the iv:tag:ciphertext
// envelope encoding used by the rest of the system.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"finvault/internal/core/domain"
)

const (
	ivLength  = 16
	tagLength = 16
)

// envelope is the fixed-arity triple behind every stored secret. Keeping it
// a struct (rather than ad-hoc string splitting) pins the 16/16 length
// invariants at one boundary.
type envelope struct {
	iv         []byte
	tag        []byte
	ciphertext []byte
}

// String serializes as three colon-joined base64 segments, fixed order
// iv:tag:ciphertext.
func (e envelope) String() string {
	enc := base64.StdEncoding
	return strings.Join([]string{
		enc.EncodeToString(e.iv),
		enc.EncodeToString(e.tag),
		enc.EncodeToString(e.ciphertext),
	}, ":")
}

// parseEnvelope rejects anything that is not exactly three base64 segments
// with a 16-byte IV and a 16-byte tag. Callers collapse every failure into
// the one uniform decryption error.
func parseEnvelope(s string) (envelope, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return envelope{}, errors.New("crypto: envelope must have three segments")
	}

	enc := base64.StdEncoding
	iv, err := enc.DecodeString(parts[0])
	if err != nil {
		return envelope{}, fmt.Errorf("crypto: bad iv encoding: %w", err)
	}
	tag, err := enc.DecodeString(parts[1])
	if err != nil {
		return envelope{}, fmt.Errorf("crypto: bad tag encoding: %w", err)
	}
	ciphertext, err := enc.DecodeString(parts[2])
	if err != nil {
		return envelope{}, fmt.Errorf("crypto: bad ciphertext encoding: %w", err)
	}

	if len(iv) != ivLength || len(tag) != tagLength {
		return envelope{}, errors.New("crypto: bad iv or tag length")
	}

	return envelope{iv: iv, tag: tag, ciphertext: ciphertext}, nil
}

type AESCredentialCipher struct {
	// Pre-calculated AEAD so per-call work is just the IV draw and Seal/Open.
	aead cipher.AEAD
}

var _ domain.CredentialCipher = (*AESCredentialCipher)(nil)

// NewAESCredentialCipher builds the cipher from the process-wide key,
// supplied as standard base64 decoding to exactly 32 bytes. A missing or
// wrong-length key is a fatal configuration error for the caller.
func NewAESCredentialCipher(keyBase64 string) (*AESCredentialCipher, error) {
	if keyBase64 == "" {
		return nil, errors.New("crypto: encryption key is not set")
	}

	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, fmt.Errorf("crypto: invalid key encoding: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("crypto: key must decode to 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: block cipher failure: %w", err)
	}

	// Zeroize the temporary key slice once the schedule is derived.
	defer func() {
		for i := range key {
			key[i] = 0
		}
	}()

	aead, err := cipher.NewGCMWithNonceSize(block, ivLength)
	if err != nil {
		return nil, fmt.Errorf("crypto: GCM failure: %w", err)
	}

	return &AESCredentialCipher{aead: aead}, nil
}

// Encrypt seals the plaintext under a freshly random IV. The IV is never
// reused: GCM under a fixed key collapses completely on a repeated IV, which
// is why the envelope stores it rather than deriving it.
func (s *AESCredentialCipher) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, ivLength)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("crypto: iv generation failure: %w", err)
	}

	// Seal appends the 16-byte tag after the ciphertext; the envelope keeps
	// them as separate segments.
	sealed := s.aead.Seal(nil, iv, []byte(plaintext), nil)
	split := len(sealed) - tagLength

	env := envelope{
		iv:         iv,
		tag:        sealed[split:],
		ciphertext: sealed[:split],
	}
	return env.String(), nil
}

// Decrypt verifies the tag before releasing any plaintext. Every failure
// mode (wrong segment count, bad base64, wrong lengths, failed
// authentication) surfaces as the same domain.ErrInvalidCiphertext so the
// caller cannot be used as a format/authentication oracle.
func (s *AESCredentialCipher) Decrypt(envelopeStr string) (string, error) {
	env, err := parseEnvelope(envelopeStr)
	if err != nil {
		return "", domain.ErrInvalidCiphertext
	}

	sealed := make([]byte, 0, len(env.ciphertext)+len(env.tag))
	sealed = append(sealed, env.ciphertext...)
	sealed = append(sealed, env.tag...)

	plaintext, err := s.aead.Open(nil, env.iv, sealed, nil)
	if err != nil {
		return "", domain.ErrInvalidCiphertext
	}

	return string(plaintext), nil
}
