package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrSignatureInvalid is returned for any webhook payload whose signature
// header does not check out. Verification fails closed: a payload that
// cannot be verified is never interpreted.
var ErrSignatureInvalid = errors.New("webhook signature invalid")

// SignatureTolerance bounds how old a signed timestamp may be before the
// delivery is treated as a replay.
const SignatureTolerance = 5 * time.Minute

// VerifySignature checks a gateway signature header of the form
// "t=<unix>,v1=<hex hmac>" against the raw, unparsed request body. The MAC
// covers "<unix>.<body>" with the shared webhook secret.
func VerifySignature(payload []byte, header, secret string, now time.Time) error {
	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	age := now.Sub(time.Unix(timestamp, 0))
	if age > SignatureTolerance || age < -SignatureTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrSignatureInvalid)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, signature := range signatures {
		decoded, err := hex.DecodeString(signature)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return fmt.Errorf("%w: no matching v1 signature", ErrSignatureInvalid)
}

// SignPayload produces a signature header for a payload, used by tests and
// local tooling to fabricate verifiable deliveries.
func SignPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", at.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if strings.TrimSpace(header) == "" {
		return 0, nil, fmt.Errorf("%w: missing signature header", ErrSignatureInvalid)
	}

	var timestamp int64 = -1
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		pair := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "t":
			parsed, err := strconv.ParseInt(pair[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad timestamp", ErrSignatureInvalid)
			}
			timestamp = parsed
		case "v1":
			signatures = append(signatures, pair[1])
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: malformed signature header", ErrSignatureInvalid)
	}
	return timestamp, signatures, nil
}
