// Package hasher computes content-addressed fingerprints for ingested
// material. Fingerprints are SHA-256 digests, hex-encoded, so identical
// content always yields the identical fingerprint and an archived record's
// fingerprint doubles as a tamper-evidence token.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint computes the content-addressed fingerprint for raw bytes.
func Fingerprint(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

// FingerprintString computes the fingerprint for string content.
func FingerprintString(content string) string {
	return Fingerprint([]byte(content))
}
