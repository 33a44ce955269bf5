package crypto

import (
	"bytes"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	digest, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if len(digest) == 0 {
		t.Fatal("expected non-empty digest")
	}
	if !h.Verify("secret123", digest) {
		t.Fatal("expected matching secret to verify")
	}
	if h.Verify("wrong", digest) {
		t.Fatal("expected mismatched secret to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Fatal("expected salted digests to differ")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	if h.Verify("secret123", []byte("not-a-bcrypt-digest")) {
		t.Fatal("expected malformed digest to report false")
	}
	if h.Verify("secret123", nil) {
		t.Fatal("expected nil digest to report false")
	}
}
