// Package ulid - encoding.go implements the Crockford Base32 codec used for the
// text form of a ULID.
//
// # Alphabet
//
// 0123456789ABCDEFGHJKMNPQRSTVWXYZ: Crockford's 32 symbols without I, L, O
// and U. Symbols are written most significant first and left-padded with
// '0', so string order matches integer order.
//
// # Thread Safety
//
// All functions in this file are pure. The decode table is built once at
// package init time and is read-only afterwards.
package ulid

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"
)

// Alphabet is the Crockford Base32 symbol set in digit order.
const Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// invalidSymbol marks bytes outside the alphabet in decodeMap.
const invalidSymbol = 0xFF

// decodeMap gives O(1) symbol-to-digit lookups; lowercase letters decode like
// their uppercase counterparts.
var decodeMap [256]byte

func init() {
	for i := 0; i < len(decodeMap); i++ {
		decodeMap[i] = invalidSymbol
	}
	for i := 0; i < len(Alphabet); i++ {
		c := Alphabet[i]
		decodeMap[c] = byte(i)
		if c >= 'A' && c <= 'Z' {
			decodeMap[c+('a'-'A')] = byte(i)
		}
	}
}

// ============================================================================
// Fixed-width fast paths
// ============================================================================

// encodeULID writes the 26-symbol form of id into dst.
//
// The 128-bit value is held as two uint64 halves and shifted right five bits
// per symbol, filling dst from the end.
func encodeULID(dst []byte, id ULID) {
	_ = dst[EncodedLen-1]
	hi := binary.BigEndian.Uint64(id[0:8])
	lo := binary.BigEndian.Uint64(id[8:16])
	for i := EncodedLen - 1; i >= 0; i-- {
		dst[i] = Alphabet[lo&0x1F]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
}

// decodeULID parses a 26-symbol string that has already passed validate.
func decodeULID(s string) ULID {
	var hi, lo uint64
	for i := 0; i < EncodedLen; i++ {
		hi = hi<<5 | lo>>59
		lo = lo<<5 | uint64(decodeMap[s[i]])
	}
	var id ULID
	binary.BigEndian.PutUint64(id[0:8], hi)
	binary.BigEndian.PutUint64(id[8:16], lo)
	return id
}

// encodeTime writes the 10-symbol timestamp segment for ms into dst.
func encodeTime(dst []byte, ms uint64) {
	_ = dst[EncodedTimestampLen-1]
	for i := EncodedTimestampLen - 1; i >= 0; i-- {
		dst[i] = Alphabet[ms&0x1F]
		ms >>= 5
	}
}

// decodeTime reads the leading 10 symbols of an already validated string.
func decodeTime(s string) uint64 {
	var ms uint64
	for i := 0; i < EncodedTimestampLen; i++ {
		ms = ms<<5 | uint64(decodeMap[s[i]])
	}
	return ms
}

// validate checks the strict text shape: exactly 26 symbols from the alphabet
// (any case) and a leading symbol of at most 7.
//
// Structural problems yield a FormatError. A well-formed string whose leading
// symbol is 8 or higher decodes past 2^128-1 and yields an OverflowError.
func validate(s string) error {
	if len(s) != EncodedLen {
		return newFormatError(s, fmt.Sprintf("must be %d symbols, got %d", EncodedLen, len(s)))
	}
	for i := 0; i < len(s); i++ {
		if decodeMap[s[i]] == invalidSymbol {
			return newFormatError(s, fmt.Sprintf("invalid symbol %q at position %d", s[i], i))
		}
	}
	if decodeMap[s[0]] > maxLeadingSymbol {
		return newOverflowError(ValueOverflowType, s, maxEncoded)
	}
	return nil
}

// ============================================================================
// Arbitrary-width codec
// ============================================================================

// EncodeInt renders v as exactly width symbols, most significant first,
// left-padded with '0'.
//
// v must be non-nil, non-negative and fit in width symbols (5 bits each).
// Anything else is a programming error and panics rather than silently
// truncating.
//
// Example:
//
//	ulid.EncodeInt(big.NewInt(1469922850259), 10) // "01ARZ3NDEK"
func EncodeInt(v *big.Int, width int) string {
	if width <= 0 {
		panic(fmt.Sprintf("ulid: EncodeInt width must be positive, got %d", width))
	}
	if v == nil {
		panic("ulid: EncodeInt of nil value")
	}
	if v.Sign() < 0 {
		panic(fmt.Sprintf("ulid: EncodeInt of negative value %s", v))
	}
	if v.BitLen() > 5*width {
		panic(fmt.Sprintf("ulid: EncodeInt value %s does not fit %d symbols", v, width))
	}

	x := new(big.Int).Set(v)
	mask := big.NewInt(0x1F)
	digit := new(big.Int)
	b := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		digit.And(x, mask)
		b[i] = Alphabet[digit.Uint64()]
		x.Rsh(x, 5)
	}
	return string(b)
}

// DecodeInt parses a string of alphabet symbols (any case, any length) into
// an integer. It does not normalize; call Normalize first for variant input.
//
// Returns a FormatError for empty input or a symbol outside the alphabet.
func DecodeInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, newFormatError(s, "empty input")
	}
	x := new(big.Int)
	for i := 0; i < len(s); i++ {
		d := decodeMap[s[i]]
		if d == invalidSymbol {
			return nil, newFormatError(s, fmt.Sprintf("invalid symbol %q at position %d", s[i], i))
		}
		x.Lsh(x, 5)
		x.Or(x, big.NewInt(int64(d)))
	}
	return x, nil
}

// Normalize rewrites common transcription variants into canonical symbols:
// '-' separators are removed, I and L become 1, O becomes 0, and letters are
// upper-cased. The result is not validated.
//
// Example:
//
//	ulid.Normalize("01arz3ndek-tsv4-rrffq69g5fav") // "01ARZ3NDEKTSV4RRFFQ69G5FAV"
//	ulid.Normalize("oLARZ3NDEKTSV4RRFFQ69G5FAV")   // "01ARZ3NDEKTSV4RRFFQ69G5FAV"
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-':
			return -1
		case 'I', 'i', 'L', 'l':
			return '1'
		case 'O', 'o':
			return '0'
		}
		if r >= 'a' && r <= 'z' {
			return r - ('a' - 'A')
		}
		return r
	}, s)
}

// maxEncoded is the text form of Maximum.
const maxEncoded = "7ZZZZZZZZZZZZZZZZZZZZZZZZZ"
