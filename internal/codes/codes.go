// Package codes generates the short random codes and tokens used by the
// verification and invite flows. Everything here draws from crypto/rand:
// these values gate identity actions, so a statistical source is not
// acceptable.
package codes

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

const (
	// VerificationCodeLength is the default OTP length.
	VerificationCodeLength = 6
	// RandomCodeLength is the default length for referral codes and
	// other non-identity-critical tokens.
	RandomCodeLength = 8
)

const (
	digits       = "0123456789"
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateVerificationCode returns a numeric one-time code of the given
// length, drawn uniformly from the decimal digits.
func GenerateVerificationCode(length int) (string, error) {
	return randomString(digits, length)
}

// GenerateRandomCode returns an alphanumeric code of the given length.
func GenerateRandomCode(length int) (string, error) {
	return randomString(alphanumeric, length)
}

// GenerateSecretKey returns a URL-safe token built from n random bytes.
func GenerateSecretKey(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func randomString(alphabet string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid code length %d", length)
	}
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read entropy: %w", err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
