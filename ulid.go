// Package ulid generates, encodes, decodes and orders Universally Unique
// Lexicographically Sortable Identifiers.
//
// # Overview
//
// A ULID is a 128-bit value made of a 48-bit millisecond timestamp and 80 bits
// of entropy. Its canonical text form is 26 Crockford Base32 symbols:
//
//	 01ARZ3NDEK      TSV4RRFFQ69G5FAV
//	|----------|    |----------------|
//	 Timestamp          Entropy
//	  10 chars          16 chars
//	  48 bits           80 bits
//
// The integer value, the 16-byte big-endian form and the canonical string all
// sort identically, so ULIDs can be compared as numbers, as bytes or as text.
//
// # Generation
//
// Identifiers built from explicit parts (New, FromBig, FromBytes) are pure
// values. The MonotonicGenerator produces identifiers that are strictly
// increasing even when many goroutines call it within the same millisecond:
//
//	// Default process-wide generator
//	id, err := ulid.Generate()
//
//	// Independent generator
//	gen := ulid.NewMonotonicGenerator()
//	id, err := gen.Generate(time.Now().UnixMilli())
//
// # Parsing
//
//	id, err := ulid.Parse("01ARZ3NDEKTSV4RRFFQ69G5FAV")        // strict
//	id, err := ulid.ParseVariant("01arz3ndek-tsv4-rrffq69g5fav") // lenient
//
// # Errors
//
// All failures are returned synchronously and wrap ErrFormat, ErrRange or
// ErrOverflow. The package never retries internally.
package ulid

import (
	"bytes"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"
	"slices"
	"strconv"
	"time"
)

// ULID is a 16-byte Universally Unique Lexicographically Sortable Identifier.
//
// Bytes 0-5 hold the big-endian millisecond timestamp and bytes 6-15 the
// entropy. ULID is a value type: it is comparable with ==, usable as a map
// key, and never changes after construction.
//
// # Interface Implementations
//
//   - fmt.Stringer / fmt.GoStringer
//   - encoding.TextMarshaler/Unmarshaler: canonical 26-symbol text
//   - encoding.BinaryMarshaler/Unmarshaler: 16 raw bytes
//   - json.Marshaler/Unmarshaler: JSON string
//   - sql.Scanner/driver.Valuer: TEXT or BLOB columns
type ULID [ByteLen]byte

var (
	// Minimum is the smallest ULID, 00000000000000000000000000.
	Minimum = ULID{}

	// Maximum is the largest ULID, 7ZZZZZZZZZZZZZZZZZZZZZZZZZ.
	Maximum = ULID{
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	}
)

// ============================================================================
// Constructors
// ============================================================================

// New builds a ULID from a millisecond timestamp and an entropy value.
//
// Returns a RangeError if either input is negative and an OverflowError if
// ms exceeds MaxTime or entropy exceeds 2^80-1.
//
// Example:
//
//	id, err := ulid.New(1469922850259, entropy)
func New(ms int64, entropy *big.Int) (ULID, error) {
	if err := checkMillis(ms); err != nil {
		return ULID{}, err
	}
	if entropy == nil {
		return ULID{}, newRangeError("entropy", "<nil>", "must be a non-negative integer")
	}
	if entropy.Sign() < 0 {
		return ULID{}, newRangeError("entropy", entropy.String(), "must be >= 0")
	}
	if entropy.Cmp(maxEntropyBig) > 0 {
		return ULID{}, newOverflowError(EntropyOverflowType, entropy.String(), maxEntropyBig.String())
	}

	var e [EntropyByteLen]byte
	entropy.FillBytes(e[:])
	return fromParts(uint64(ms), e), nil
}

// MustNew is like New but panics on error.
func MustNew(ms int64, entropy *big.Int) ULID {
	id, err := New(ms, entropy)
	if err != nil {
		panic(err)
	}
	return id
}

// Encode returns the canonical text of the ULID built from ms and entropy,
// with the same validation as New.
func Encode(ms int64, entropy *big.Int) (string, error) {
	id, err := New(ms, entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// FromBig builds a ULID from its 128-bit integer value.
//
// Returns a RangeError for negative values and an OverflowError for values
// above 2^128-1.
func FromBig(v *big.Int) (ULID, error) {
	if v == nil {
		return ULID{}, newRangeError("value", "<nil>", "must be a non-negative integer")
	}
	if v.Sign() < 0 {
		return ULID{}, newRangeError("value", v.String(), "must be >= 0")
	}
	if v.Cmp(maxValueBig) > 0 {
		return ULID{}, newOverflowError(ValueOverflowType, v.String(), maxValueBig.String())
	}
	var id ULID
	v.FillBytes(id[:])
	return id, nil
}

// FromBytes copies a 16-byte big-endian representation into a ULID.
//
// Every 16-byte sequence is a valid ULID. Any other length is a FormatError.
func FromBytes(b []byte) (ULID, error) {
	var id ULID
	if len(b) != ByteLen {
		return id, newFormatError(fmt.Sprintf("%x", b), fmt.Sprintf("must be %d bytes, got %d", ByteLen, len(b)))
	}
	copy(id[:], b)
	return id, nil
}

// fromParts assembles a ULID from an already validated timestamp and entropy.
func fromParts(ms uint64, entropy [EntropyByteLen]byte) ULID {
	var id ULID
	putMillis(&id, ms)
	copy(id[TimestampByteLen:], entropy[:])
	return id
}

func putMillis(id *ULID, ms uint64) {
	id[0] = byte(ms >> 40)
	id[1] = byte(ms >> 32)
	id[2] = byte(ms >> 24)
	id[3] = byte(ms >> 16)
	id[4] = byte(ms >> 8)
	id[5] = byte(ms)
}

// checkMillis validates a timestamp against [0, MaxTime].
func checkMillis(ms int64) error {
	if ms < 0 {
		return newRangeError("milliseconds", strconv.FormatInt(ms, 10), "must be >= 0")
	}
	if ms > MaxTime {
		return newOverflowError(TimestampOverflowType, strconv.FormatInt(ms, 10), strconv.FormatInt(MaxTime, 10))
	}
	return nil
}

// ============================================================================
// Text and component access
// ============================================================================

// String returns the canonical 26-symbol uppercase representation.
//
// Example:
//
//	id.String() // "01ARZ3NDEKTSV4RRFFQ69G5FAV"
func (id ULID) String() string {
	var b [EncodedLen]byte
	encodeULID(b[:], id)
	return string(b[:])
}

// GoString renders the ULID with its timestamp for debugging output (%#v).
//
//	ulid.ULID(2016-07-30 23:54:10.259 UTC: 01ARZ3NDEKTSV4RRFFQ69G5FAV)
func (id ULID) GoString() string {
	return fmt.Sprintf("ulid.ULID(%s: %s)", id.Time().Format("2006-01-02 15:04:05.000 MST"), id.String())
}

// EncodedTimestamp returns the leading 10 symbols of the text form.
func (id ULID) EncodedTimestamp() string {
	var b [EncodedTimestampLen]byte
	encodeTime(b[:], uint64(id.Milliseconds()))
	return string(b[:])
}

// EncodedEntropy returns the trailing 16 symbols of the text form.
func (id ULID) EncodedEntropy() string {
	return id.String()[EncodedTimestampLen:]
}

// Bytes returns a copy of the 16-byte big-endian representation.
func (id ULID) Bytes() []byte {
	b := make([]byte, ByteLen)
	copy(b, id[:])
	return b
}

// TimestampBytes returns the 6 bytes holding the timestamp.
func (id ULID) TimestampBytes() [TimestampByteLen]byte {
	var b [TimestampByteLen]byte
	copy(b[:], id[:TimestampByteLen])
	return b
}

// EntropyBytes returns the 10 bytes holding the entropy.
func (id ULID) EntropyBytes() [EntropyByteLen]byte {
	var b [EntropyByteLen]byte
	copy(b[:], id[TimestampByteLen:])
	return b
}

// Milliseconds returns the timestamp component in milliseconds since the Unix epoch.
func (id ULID) Milliseconds() int64 {
	return int64(id[5]) | int64(id[4])<<8 | int64(id[3])<<16 |
		int64(id[2])<<24 | int64(id[1])<<32 | int64(id[0])<<40
}

// Time returns the timestamp component as a UTC time.Time.
func (id ULID) Time() time.Time {
	return time.UnixMilli(id.Milliseconds()).UTC()
}

// Entropy returns the 80-bit entropy component.
func (id ULID) Entropy() *big.Int {
	return new(big.Int).SetBytes(id[TimestampByteLen:])
}

// Big returns the 128-bit integer value, milliseconds<<80 | entropy.
func (id ULID) Big() *big.Int {
	return new(big.Int).SetBytes(id[:])
}

// IsZero reports whether id is Minimum.
func (id ULID) IsZero() bool {
	return id == Minimum
}

// ============================================================================
// Ordering and adjacency
// ============================================================================

// Compare returns -1, 0 or 1 as id sorts before, equal to or after other.
func (id ULID) Compare(other ULID) int {
	return bytes.Compare(id[:], other[:])
}

// Before reports whether id sorts before other.
func (id ULID) Before(other ULID) bool {
	return id.Compare(other) < 0
}

// After reports whether id sorts after other.
func (id ULID) After(other ULID) bool {
	return id.Compare(other) > 0
}

// Equal reports whether id and other hold the same value.
func (id ULID) Equal(other ULID) bool {
	return id == other
}

// Next returns the successor of id (value + 1). The boolean is false when id
// is Maximum and no successor exists.
func (id ULID) Next() (ULID, bool) {
	hi := binary.BigEndian.Uint64(id[0:8])
	lo := binary.BigEndian.Uint64(id[8:16])
	lo, carry := bits.Add64(lo, 1, 0)
	hi, carry = bits.Add64(hi, 0, carry)
	if carry != 0 {
		return ULID{}, false
	}
	return fromHalves(hi, lo), true
}

// Prev returns the predecessor of id (value - 1). The boolean is false when id
// is Minimum and no predecessor exists.
func (id ULID) Prev() (ULID, bool) {
	hi := binary.BigEndian.Uint64(id[0:8])
	lo := binary.BigEndian.Uint64(id[8:16])
	lo, borrow := bits.Sub64(lo, 1, 0)
	hi, borrow = bits.Sub64(hi, 0, borrow)
	if borrow != 0 {
		return ULID{}, false
	}
	return fromHalves(hi, lo), true
}

func fromHalves(hi, lo uint64) ULID {
	var id ULID
	binary.BigEndian.PutUint64(id[0:8], hi)
	binary.BigEndian.PutUint64(id[8:16], lo)
	return id
}

// Sort sorts ids in ascending order in place.
func Sort(ids []ULID) {
	slices.SortFunc(ids, func(a, b ULID) int { return a.Compare(b) })
}

// ============================================================================
// Marshaling
// ============================================================================

// MarshalText implements encoding.TextMarshaler.
func (id ULID) MarshalText() ([]byte, error) {
	b := make([]byte, EncodedLen)
	encodeULID(b, id)
	return b, nil
}

// UnmarshalText implements encoding.TextUnmarshaler using strict parsing.
// Used by encoding/json map keys, YAML, TOML and flag parsing.
func (id *ULID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler (16 raw bytes).
func (id ULID) MarshalBinary() ([]byte, error) {
	return id.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// Returns a FormatError unless data is exactly 16 bytes.
func (id *ULID) UnmarshalBinary(data []byte) error {
	parsed, err := FromBytes(data)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalJSON implements json.Marshaler. The ULID is written as a JSON string.
func (id ULID) MarshalJSON() ([]byte, error) {
	b := make([]byte, EncodedLen+2)
	b[0], b[EncodedLen+1] = '"', '"'
	encodeULID(b[1:EncodedLen+1], id)
	return b, nil
}

// UnmarshalJSON implements json.Unmarshaler. JSON null leaves the zero ULID.
func (id *ULID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ULID{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return newFormatError(string(data), "JSON value must be a string")
	}
	return id.UnmarshalText(data[1 : len(data)-1])
}

// Scan implements sql.Scanner.
//
// Supported column types:
//   - string or []byte of 26 symbols: canonical or lowercase text
//   - []byte of 16 bytes: raw binary (BLOB / BINARY(16))
//   - nil: the zero ULID
func (id *ULID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*id = ULID{}
		return nil
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == ByteLen {
			return id.UnmarshalBinary(v)
		}
		return id.UnmarshalText(v)
	default:
		return fmt.Errorf("ulid: cannot scan %T into ULID", value)
	}
}

// Value implements driver.Valuer. ULIDs are stored as canonical text so that
// TEXT column ordering matches ULID ordering.
//
// Recommended schema:
//
//	CREATE TABLE events (id CHAR(26) PRIMARY KEY, ...);
func (id ULID) Value() (driver.Value, error) {
	return id.String(), nil
}
