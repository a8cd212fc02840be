package pairing

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
)

// Gender is the matching key: one of male, female, other.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// genderScanOrder is the fixed enumeration order used by the waiting pool
// when no opposite male/female candidate exists. Wire-stable: changing it
// changes which class gets matched first.
var genderScanOrder = [...]Gender{GenderMale, GenderFemale, GenderOther}

// NormalizeGender canonicalizes free-text gender input.
// Case-insensitive, whitespace-trimmed; anything that is not a recognized
// male/female spelling (including empty input) classifies as other.
func NormalizeGender(raw string) Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	default:
		return GenderOther
	}
}

// newDisplayName returns an anonymous display name of the form "User" plus a
// 4-digit suffix. Uniqueness is NOT guaranteed; names are cosmetic and all
// routing is keyed by connection id.
func newDisplayName() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "User0000"
	}
	n := binary.BigEndian.Uint64(b[:]) % 9000
	return fmt.Sprintf("User%d", 1000+n)
}
