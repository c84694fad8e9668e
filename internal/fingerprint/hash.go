package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainQuery separates native query fingerprints from any other hash.
const DomainQuery = "cathbad/query/v1"

// Sum hashes the canonical form of the JSON document data under domain.
func Sum(domain string, data []byte) (string, error) {
	canonical, err := Canonicalize(data)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(domain, canonical), nil
}

// hashWithDomain computes SHA256(domain || 0x00 || data) as lowercase hex.
// The zero byte keeps domain and data from running into each other.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
