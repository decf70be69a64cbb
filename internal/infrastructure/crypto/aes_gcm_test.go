package crypto_test

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"finvault/internal/core/domain"
	"finvault/internal/infrastructure/crypto"
)

// generateTestKey creates a random 256-bit key in standard base64.
func generateTestKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("Failed to generate test key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func newTestCipher(t *testing.T) *crypto.AESCredentialCipher {
	t.Helper()
	c, err := crypto.NewAESCredentialCipher(generateTestKey(t))
	if err != nil {
		t.Fatalf("Failed to create cipher: %v", err)
	}
	return c
}

// ==============================================================================
// 1. Fundamental Correctness
// ==============================================================================

func TestAESGCM_EncryptDecrypt_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	for _, plaintext := range []string{
		"hunter2",
		"correct horse battery staple",
		"påsswörd with ünïcode — 密码",
		"",
	} {
		env, err := c.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%q) failed: %v", plaintext, err)
		}

		got, err := c.Decrypt(env)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if got != plaintext {
			t.Errorf("Round-trip failed: got %q, want %q", got, plaintext)
		}
	}
}

func TestAESGCM_Envelope_Format(t *testing.T) {
	c := newTestCipher(t)

	env, err := c.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	parts := strings.Split(env, ":")
	if len(parts) != 3 {
		t.Fatalf("Envelope has %d segments, want 3 (iv:tag:ciphertext)", len(parts))
	}

	iv, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		t.Fatalf("IV segment is not base64: %v", err)
	}
	tag, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("Tag segment is not base64: %v", err)
	}

	if len(iv) != 16 {
		t.Errorf("IV is %d bytes, want 16", len(iv))
	}
	if len(tag) != 16 {
		t.Errorf("Tag is %d bytes, want 16", len(tag))
	}
}

// ==============================================================================
// 2. IV Uniqueness (Semantic Security)
// ==============================================================================

func TestAESGCM_IV_Uniqueness(t *testing.T) {
	c := newTestCipher(t)

	// Encrypt the SAME plaintext 100 times; every envelope must differ and
	// every envelope must still decrypt to the original.
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		env, err := c.Encrypt("identical-plaintext")
		if err != nil {
			t.Fatalf("Encrypt #%d failed: %v", i, err)
		}
		if seen[env] {
			t.Fatalf("IV reuse detected at iteration %d: identical envelope produced", i)
		}
		seen[env] = true

		got, err := c.Decrypt(env)
		if err != nil || got != "identical-plaintext" {
			t.Fatalf("Envelope #%d does not decrypt back: %v", i, err)
		}
	}
}

// ==============================================================================
// 3. Key Validation
// ==============================================================================

func TestAESGCM_Rejects_Bad_Keys(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"not base64":  "!!!not-valid-base64!!!",
		"16-byte key": base64.StdEncoding.EncodeToString(make([]byte, 16)),
		"31-byte key": base64.StdEncoding.EncodeToString(make([]byte, 31)),
		"33-byte key": base64.StdEncoding.EncodeToString(make([]byte, 33)),
		"64-byte key": base64.StdEncoding.EncodeToString(make([]byte, 64)),
	}

	for name, key := range cases {
		if _, err := crypto.NewAESCredentialCipher(key); err == nil {
			t.Errorf("Accepted %s key, want configuration error", name)
		}
	}
}

// ==============================================================================
// 4. Tamper Detection & Uniform Failure
// ==============================================================================

func flipChar(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestAESGCM_Tamper_Detection_Per_Segment(t *testing.T) {
	c := newTestCipher(t)

	env, err := c.Encrypt("sensitive-data")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	parts := strings.Split(env, ":")

	for i, name := range []string{"iv", "tag", "ciphertext"} {
		mutated := make([]string, 3)
		copy(mutated, parts)
		mutated[i] = flipChar(mutated[i], 1)

		_, err := c.Decrypt(strings.Join(mutated, ":"))
		if err == nil {
			t.Fatalf("Decrypt succeeded with tampered %s segment", name)
		}
		if !errors.Is(err, domain.ErrInvalidCiphertext) {
			t.Errorf("Tampered %s: got %v, want uniform ErrInvalidCiphertext", name, err)
		}
	}
}

func TestAESGCM_Uniform_Failure_No_Oracle(t *testing.T) {
	c := newTestCipher(t)

	// Malformed-format failures and failed-authentication failures must be
	// indistinguishable to the caller.
	inputs := []string{
		"",
		"no separators at all",
		"only:two",
		"one:too:many:parts",
		"!!!:!!!:!!!",
		// Structurally valid base64 but a 12-byte IV.
		base64.StdEncoding.EncodeToString(make([]byte, 12)) + ":" +
			base64.StdEncoding.EncodeToString(make([]byte, 16)) + ":" +
			base64.StdEncoding.EncodeToString([]byte("junk")),
		// 16-byte IV but an 8-byte tag.
		base64.StdEncoding.EncodeToString(make([]byte, 16)) + ":" +
			base64.StdEncoding.EncodeToString(make([]byte, 8)) + ":" +
			base64.StdEncoding.EncodeToString([]byte("junk")),
		// Well-formed lengths, garbage content: fails authentication.
		base64.StdEncoding.EncodeToString(make([]byte, 16)) + ":" +
			base64.StdEncoding.EncodeToString(make([]byte, 16)) + ":" +
			base64.StdEncoding.EncodeToString([]byte("garbage-ciphertext")),
	}

	for _, in := range inputs {
		_, err := c.Decrypt(in)
		if !errors.Is(err, domain.ErrInvalidCiphertext) {
			t.Errorf("Decrypt(%q): got %v, want ErrInvalidCiphertext", in, err)
		}
	}
}

func TestAESGCM_Wrong_Key_Fails_Closed(t *testing.T) {
	c1 := newTestCipher(t)
	c2 := newTestCipher(t)

	env, err := c1.Encrypt("secret under key one")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if _, err := c2.Decrypt(env); !errors.Is(err, domain.ErrInvalidCiphertext) {
		t.Errorf("Decrypt under wrong key: got %v, want ErrInvalidCiphertext", err)
	}
}
