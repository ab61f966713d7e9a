package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("signature verification failed")
)

// ValidateSignature verifies the Meta webhook signature over the raw request
// body. The header value is in the format: sha256=<hex_signature>.
// A missing header is invalid, never "skip validation".
func ValidateSignature(payload []byte, signature, appSecret string) error {
	if signature == "" {
		return ErrMissingSignature
	}
	if !strings.HasPrefix(signature, "sha256=") {
		return ErrInvalidSignature
	}
	expectedSig := strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(payload)
	computedSig := hex.EncodeToString(mac.Sum(nil))

	// Constant-time comparison to prevent timing attacks
	if !hmac.Equal([]byte(expectedSig), []byte(computedSig)) {
		return ErrInvalidSignature
	}
	return nil
}
