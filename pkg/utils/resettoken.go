package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// resetTokenBytes gives 160 bits of entropy; hex keeps the secret URL-safe.
const resetTokenBytes = 20

// GenerateResetToken returns the raw secret sent to the user and its sha256
// digest. Only the digest is stored; the raw secret exists in the email link
// and nowhere else.
func GenerateResetToken() (raw string, hash string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	raw = hex.EncodeToString(buf)
	return raw, HashResetToken(raw), nil
}

// HashResetToken recomputes the stored digest for a raw secret supplied in a
// reset request.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
