package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// ownerKeyLen is the hex length of owner prefixes; 128 bits is plenty for per-visitor directories.
const ownerKeyLen = 32

// HashOwnerKey returns a path-safe prefix for an object owner such as a visitor ID,
// so raw visitor IDs never appear in storage keys.
func HashOwnerKey(owner string) string {
	sum := sha256.Sum256([]byte(owner))
	return hex.EncodeToString(sum[:])[:ownerKeyLen]
}
