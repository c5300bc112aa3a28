package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

func TestHashSecret_NilAndEmpty(t *testing.T) {
	if h, err := HashSecret(nil); err != nil || h != nil {
		t.Fatalf("expected nil hash for nil secret, got %v, %v", h, err)
	}
	if h, err := HashSecret(strPtr("")); err != nil || h != nil {
		t.Fatalf("expected nil hash for empty secret, got %v, %v", h, err)
	}
}

func TestHashSecret_Salted(t *testing.T) {
	a, err := HashSecret(strPtr("s3cret"))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := HashSecret(strPtr("s3cret"))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if *a == "s3cret" {
		t.Fatalf("expected secret to be hashed")
	}
	if *a == *b {
		t.Fatalf("expected distinct salted hashes")
	}
	if !VerifySecret("s3cret", *a) || !VerifySecret("s3cret", *b) {
		t.Fatalf("expected both hashes to verify")
	}
}

func TestHashSecret_TooLong(t *testing.T) {
	_, err := HashSecret(strPtr(strings.Repeat("x", 100)))
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestVerifySecret_Mismatch(t *testing.T) {
	h, _ := HashSecret(strPtr("right"))
	if VerifySecret("wrong", *h) {
		t.Fatalf("expected mismatch")
	}
	if VerifySecret("right", "not-a-bcrypt-hash") {
		t.Fatalf("expected false for malformed hash")
	}
}

func TestCodeIssuer_IssueStoresAndDelivers(t *testing.T) {
	store := newMapCodeStore()
	sender := newRecordingSender()
	issuer := NewCodeIssuer(store, sender, discardLogger)

	if err := issuer.Issue(context.Background(), "  555000 "); err != nil {
		t.Fatalf("issue: %v", err)
	}

	code, ok, _ := store.Get(context.Background(), "555000")
	if !ok {
		t.Fatalf("expected code stored under trimmed key")
	}
	if code < minCode || code > maxCode {
		t.Fatalf("code out of range: %d", code)
	}
	if sender.last["555000"] != code {
		t.Fatalf("sender got %d, store has %d", sender.last["555000"], code)
	}
}

func TestCodeIssuer_VerifyUsesLatestCode(t *testing.T) {
	store := newMapCodeStore()
	issuer := NewCodeIssuer(store, newRecordingSender(), discardLogger)
	codes := []int{1234, 5678}
	issuer.generate = func() (int, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}
	ctx := context.Background()

	_ = issuer.Issue(ctx, "555")
	if ok, _ := issuer.Verify(ctx, "555", "1234"); !ok {
		t.Fatalf("expected first code to verify")
	}
	// Not consumed on success.
	if ok, _ := issuer.Verify(ctx, " 555 ", "1234"); !ok {
		t.Fatalf("expected code to verify again")
	}

	_ = issuer.Issue(ctx, "555")
	if ok, _ := issuer.Verify(ctx, "555", "1234"); ok {
		t.Fatalf("expected superseded code to fail")
	}
	if ok, _ := issuer.Verify(ctx, "555", "5678"); !ok {
		t.Fatalf("expected latest code to verify")
	}
}

func TestCodeIssuer_VerifyNonNumericAndUnknown(t *testing.T) {
	store := newMapCodeStore()
	issuer := NewCodeIssuer(store, newRecordingSender(), discardLogger)
	ctx := context.Background()
	_ = store.Put(ctx, "555", 4321)

	for _, candidate := range []string{"abcd", "", "43.21"} {
		ok, err := issuer.Verify(ctx, "555", candidate)
		if err != nil || ok {
			t.Fatalf("candidate %q: expected false/nil, got %v/%v", candidate, ok, err)
		}
	}
	if ok, _ := issuer.Verify(ctx, "999", "4321"); ok {
		t.Fatalf("expected unknown key to fail")
	}
}

func TestCodeIssuer_DeliveryFailure(t *testing.T) {
	store := newMapCodeStore()
	sender := newRecordingSender()
	sender.err = errors.New("gateway down")
	issuer := NewCodeIssuer(store, sender, discardLogger)

	err := issuer.Issue(context.Background(), "555")
	if !errors.Is(err, domain.ErrDeliveryFailure) {
		t.Fatalf("expected ErrDeliveryFailure, got %v", err)
	}
	if _, ok, _ := store.Get(context.Background(), "555"); !ok {
		t.Fatalf("expected code to be stored even when delivery fails")
	}
}

func TestCodeIssuer_EmptyKey(t *testing.T) {
	issuer := NewCodeIssuer(newMapCodeStore(), newRecordingSender(), discardLogger)
	if err := issuer.Issue(context.Background(), "   "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRandomCode_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		c, err := randomCode()
		if err != nil {
			t.Fatalf("randomCode: %v", err)
		}
		if c < 1000 || c > 9999 || len(strconv.Itoa(c)) != 4 {
			t.Fatalf("code out of range: %d", c)
		}
	}
}
