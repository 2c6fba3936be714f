package security

import (
	"errors"
	"testing"
	"time"

	errs "PPSocial/tools/errs"
)

var testSecret = []byte("mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3")

func TestRequestTokenIssueVerify(t *testing.T) {
	opts := DefaultRequestTokenOptions(testSecret)

	token, err := IssueRequestToken(opts, "u1", "u2")
	if err != nil {
		t.Fatalf("IssueRequestToken failed: %v", err)
	}

	sender, receiver, err := VerifyRequestToken(opts, token)
	if err != nil {
		t.Fatalf("VerifyRequestToken failed: %v", err)
	}
	if sender != "u1" || receiver != "u2" {
		t.Fatalf("claims mismatch: sender=%s receiver=%s", sender, receiver)
	}
}

func TestRequestTokenExpired(t *testing.T) {
	// 1ns 的有效期在验签时必然已过期
	opts := RequestTokenOptions{Secret: testSecret, TTL: time.Nanosecond}

	token, err := IssueRequestToken(opts, "u1", "u2")
	if err != nil {
		t.Fatalf("IssueRequestToken failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, _, err = VerifyRequestToken(opts, token)
	if !errors.Is(err, errs.ErrTokenExpired) {
		t.Fatalf("expected token expired, got: %v", err)
	}
}

func TestRequestTokenBadSignature(t *testing.T) {
	opts := DefaultRequestTokenOptions(testSecret)
	token, err := IssueRequestToken(opts, "u1", "u2")
	if err != nil {
		t.Fatalf("IssueRequestToken failed: %v", err)
	}

	other := DefaultRequestTokenOptions([]byte("another-secret-another-secret!!!"))
	if _, _, err := VerifyRequestToken(other, token); !errors.Is(err, errs.ErrTokenInvalid) {
		t.Fatalf("expected token invalid, got: %v", err)
	}
}

func TestRequestTokenGarbage(t *testing.T) {
	opts := DefaultRequestTokenOptions(testSecret)
	if _, _, err := VerifyRequestToken(opts, "not-a-jwt"); !errors.Is(err, errs.ErrTokenInvalid) {
		t.Fatalf("expected token invalid, got: %v", err)
	}
}

func TestRequestTokenEmptyParties(t *testing.T) {
	opts := DefaultRequestTokenOptions(testSecret)
	if _, err := IssueRequestToken(opts, "", "u2"); err == nil {
		t.Fatalf("IssueRequestToken accepted empty sender")
	}
}
