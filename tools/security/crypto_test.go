package security

import (
	"errors"
	"strings"
	"testing"

	errs "PPSocial/tools/errs"
)

func TestMessageCipherRoundTrip(t *testing.T) {
	c, err := NewMessageCipher([]byte("0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewMessageCipher failed: %v", err)
	}

	for _, text := range []string{"", "hello", "你好，世界", strings.Repeat("x", 4096)} {
		ct, err := c.Encrypt(text)
		if err != nil {
			t.Fatalf("Encrypt(%q) failed: %v", text, err)
		}
		if ct == text && text != "" {
			t.Fatalf("ciphertext equals plaintext")
		}
		got, err := c.Decrypt(ct)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if got != text {
			t.Fatalf("round trip mismatch: got %q want %q", got, text)
		}
	}
}

func TestMessageCipherNonDeterministic(t *testing.T) {
	c, err := NewMessageCipher([]byte("0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewMessageCipher failed: %v", err)
	}
	a, err := c.Encrypt("same body")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	b, err := c.Encrypt("same body")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if a == b {
		t.Fatalf("two encryptions of the same plaintext produced identical ciphertexts")
	}
}

func TestMessageCipherTamper(t *testing.T) {
	c, err := NewMessageCipher([]byte("0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewMessageCipher failed: %v", err)
	}
	ct, err := c.Encrypt("hello")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	raw := []byte(ct)
	raw[len(raw)-1] ^= 1
	if _, err := c.Decrypt(string(raw)); err == nil {
		t.Fatalf("Decrypt accepted tampered ciphertext")
	} else if !errors.Is(err, errs.ErrCrypto) {
		t.Fatalf("expected crypto error, got: %v", err)
	}
}

func TestMessageCipherWrongKey(t *testing.T) {
	c1, err := NewMessageCipher([]byte("0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewMessageCipher failed: %v", err)
	}
	c2, err := NewMessageCipher([]byte("fedcba9876543210"))
	if err != nil {
		t.Fatalf("NewMessageCipher failed: %v", err)
	}
	ct, err := c1.Encrypt("hello")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := c2.Decrypt(ct); err == nil {
		t.Fatalf("Decrypt with wrong key succeeded")
	}
}

func TestMessageCipherBadKeyLength(t *testing.T) {
	if _, err := NewMessageCipher([]byte("short")); err == nil {
		t.Fatalf("NewMessageCipher accepted invalid key length")
	}
}
