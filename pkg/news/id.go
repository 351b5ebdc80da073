package news

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

const (
	idLength = 24
	charset  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	snapshotIDPrefix = "snap_"
)

var snapshotIDPattern = regexp.MustCompile(`^snap_[a-zA-Z0-9]{24}$`)

// NewSnapshotID generates a new snapshot ID with the "snap_" prefix
// followed by 24 cryptographically random alphanumeric characters.
func NewSnapshotID() string {
	return snapshotIDPrefix + randomAlphanumeric(idLength)
}

// ValidateSnapshotID checks whether the given string is a valid snapshot ID
// (matches "snap_" + 24 alphanumeric characters).
func ValidateSnapshotID(id string) bool {
	return snapshotIDPattern.MatchString(id)
}

func randomAlphanumeric(n int) string {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		b[i] = charset[idx.Int64()]
	}
	return string(b)
}
