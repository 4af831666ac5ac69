package payment

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

const testSecret = "whsec_sig_test"

func TestVerifySignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()

	header := SignPayload(payload, testSecret, now)
	if err := VerifySignature(payload, header, testSecret, now); err != nil {
		t.Fatalf("expected signature to verify, got %v", err)
	}
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	header := SignPayload(payload, "other-secret", now)
	err := VerifySignature(payload, header, testSecret, now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifySignatureTamperedPayload(t *testing.T) {
	payload := []byte(`{"amount":204}`)
	now := time.Now()
	header := SignPayload(payload, testSecret, now)

	tampered := []byte(`{"amount":999}`)
	err := VerifySignature(tampered, header, testSecret, now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifySignatureOutsideTolerance(t *testing.T) {
	payload := []byte(`{}`)
	signedAt := time.Now().Add(-SignatureTolerance - time.Minute)

	header := SignPayload(payload, testSecret, signedAt)
	err := VerifySignature(payload, header, testSecret, time.Now())
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid for stale timestamp, got %v", err)
	}
}

func TestVerifySignatureMalformedHeaders(t *testing.T) {
	payload := []byte(`{}`)
	headers := []string{
		"",
		"t=oops,v1=ff",
		"v1=ff",
		fmt.Sprintf("t=%d", time.Now().Unix()),
		"not a signature header",
	}

	for _, header := range headers {
		err := VerifySignature(payload, header, testSecret, time.Now())
		if !errors.Is(err, ErrSignatureInvalid) {
			t.Fatalf("header %q: expected ErrSignatureInvalid, got %v", header, err)
		}
	}
}

func TestVerifySignatureAcceptsAnyMatchingV1(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	good := SignPayload(payload, testSecret, now)
	v1 := strings.SplitN(good, "v1=", 2)[1]
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s", now.Unix(), "deadbeef", v1)

	if err := VerifySignature(payload, header, testSecret, now); err != nil {
		t.Fatalf("expected one matching v1 entry to be enough, got %v", err)
	}
}
