package pairing

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewConnID returns a ULID string (26 chars) used as the connection id.
// ULIDs are lexicographically sortable, which keeps log lines and room ids
// easy to correlate by connection age.
func NewConnID(now time.Time) (string, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
