package ulid

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"
)

// rander is the entropy source for Random and At.
var rander io.Reader = rand.Reader

// readEntropy fills dst completely from r.
func readEntropy(r io.Reader, dst []byte) error {
	if _, err := io.ReadFull(r, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	return nil
}

// Random returns a ULID with timestamp ms and fresh entropy from crypto/rand.
// Successive calls within one millisecond are unique with overwhelming
// probability but not ordered; use a MonotonicGenerator for ordering.
func Random(ms int64) (ULID, error) {
	if err := checkMillis(ms); err != nil {
		return ULID{}, err
	}
	var e [EntropyByteLen]byte
	if err := readEntropy(rander, e[:]); err != nil {
		return ULID{}, err
	}
	return fromParts(uint64(ms), e), nil
}

// At is Random for a time.Time.
func At(t time.Time) (ULID, error) {
	ms, err := timeMillis(t)
	if err != nil {
		return ULID{}, err
	}
	return Random(ms)
}
