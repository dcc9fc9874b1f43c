package embedding

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashString returns a hex-encoded SHA-256 digest, used to derive cache
// keys from arbitrary-length input text.
func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
