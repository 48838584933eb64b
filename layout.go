// Package ulid - layout.go describes the fixed bit, byte and symbol layout of a ULID.
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                      32_bit_uint_time_high                    |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|     16_bit_uint_time_low      |       16_bit_uint_random      |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                       32_bit_uint_random                      |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//	|                       32_bit_uint_random                      |
//	+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//
// Text form: 10 symbols of timestamp followed by 16 symbols of entropy.
// 26 symbols carry 130 bits, so the leading symbol only has 3 significant
// bits and must be in 0-7.

package ulid

import (
	"math/big"
)

const (
	// TimestampBits is the width of the millisecond timestamp field.
	TimestampBits = 48

	// EntropyBits is the width of the random field.
	EntropyBits = 80

	// ByteLen is the size of the binary representation.
	ByteLen = 16

	// TimestampByteLen is the number of leading bytes holding the timestamp.
	TimestampByteLen = TimestampBits / 8 // 6

	// EntropyByteLen is the number of trailing bytes holding entropy.
	EntropyByteLen = EntropyBits / 8 // 10

	// EncodedLen is the length of the canonical text form.
	EncodedLen = 26

	// EncodedTimestampLen is the number of leading symbols encoding the timestamp.
	EncodedTimestampLen = 10

	// EncodedEntropyLen is the number of trailing symbols encoding entropy.
	EncodedEntropyLen = EncodedLen - EncodedTimestampLen // 16

	// MaxTime is the largest representable timestamp in milliseconds
	// (2^48 - 1, about the year 10889).
	MaxTime int64 = 1<<TimestampBits - 1

	// maxLeadingSymbol is the largest digit value allowed in the first symbol.
	maxLeadingSymbol = 7
)

// Domain maxima as big integers, for constructors that accept arbitrary
// precision input. Read-only after package initialization.
var (
	maxEntropyBig = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), EntropyBits), big.NewInt(1))
	maxValueBig   = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), TimestampBits+EntropyBits), big.NewInt(1))
)

// MaxEntropy returns 2^80 - 1, the largest entropy value.
func MaxEntropy() *big.Int {
	return new(big.Int).Set(maxEntropyBig)
}

// MaxValue returns 2^128 - 1, the integer value of Maximum.
func MaxValue() *big.Int {
	return new(big.Int).Set(maxValueBig)
}
