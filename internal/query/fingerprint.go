package query

import "github.com/roach88/cathbad/internal/fingerprint"

// Fingerprint returns a stable hex digest of the wire form of q. Two
// queries have the same fingerprint iff they encode to the same JSON up to
// key order and whitespace.
func Fingerprint(q NativeQuery) (string, error) {
	body, err := Marshal(q)
	if err != nil {
		return "", err
	}
	return fingerprint.Sum(fingerprint.DomainQuery, body)
}
