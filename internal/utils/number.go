package utils

import (
	"fmt"
	"time"
)

// NewDocumentNumber builds a human-readable document number such as
// RES-20250901143015-9f3a: the given prefix, a UTC second timestamp and
// a random hex suffix.  The suffix keeps two documents created within
// the same second from colliding; the UNIQUE column constraint is the
// final guard.
func NewDocumentNumber(prefix string) (string, error) {
	suffix, err := randomHex(2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102150405"), suffix), nil
}
