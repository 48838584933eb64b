package ulid

import (
	"regexp"
	"time"
)

// Parse decodes the canonical 26-symbol form. Letters may be in either case.
//
// Returns a FormatError if s is not 26 alphabet symbols and an OverflowError
// if it is but the leading symbol is above 7 (the value exceeds 2^128-1).
//
// Example:
//
//	id, err := ulid.Parse("01ARZ3NDEKTSV4RRFFQ69G5FAV")
func Parse(s string) (ULID, error) {
	if err := validate(s); err != nil {
		return ULID{}, err
	}
	return decodeULID(s), nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) ULID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// ParseVariant accepts transcription variants: '-' separators, I or L in
// place of 1, O in place of 0, any letter case. The input is normalized and
// then parsed strictly.
//
// Example:
//
//	id, err := ulid.ParseVariant("01ARZ3NDEK-TSV4-RRFF-Q69G5FAV")
func ParseVariant(s string) (ULID, error) {
	return Parse(Normalize(s))
}

// DecodeTimestamp validates s like Parse and returns only its timestamp in
// milliseconds, without decoding the entropy.
func DecodeTimestamp(s string) (int64, error) {
	if err := validate(s); err != nil {
		return 0, err
	}
	return int64(decodeTime(s)), nil
}

// DecodeTime is DecodeTimestamp returning a UTC time.Time.
func DecodeTime(s string) (time.Time, error) {
	ms, err := DecodeTimestamp(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

// IsValid reports whether s parses strictly.
func IsValid(s string) bool {
	return validate(s) == nil
}

// IsValidVariant reports whether s parses with ParseVariant.
func IsValidVariant(s string) bool {
	return validate(Normalize(s)) == nil
}

// IsNormalized reports whether s is already in canonical form: valid, and
// equal to its own normalized, upper-case rendering.
func IsNormalized(s string) bool {
	return IsValid(s) && Normalize(s) == s
}

// scanPattern matches word-bounded strict ULIDs inside free text. The class
// is spelled out in both cases; (?i) would also fold in non-ASCII letters
// such as U+212A KELVIN SIGN.
var scanPattern = regexp.MustCompile(`\b[0-7][0-9A-HJKMNP-TV-Za-hjkmnp-tv-z]{25}\b`)

// FindAll returns every strict ULID embedded in text, in order of appearance.
//
// Example:
//
//	ids := ulid.FindAll("created 01ARZ3NDEKTSV4RRFFQ69G5FAV and 01BX5ZZKBKACTAV9WEVGEMMVRY")
func FindAll(text string) []ULID {
	matches := scanPattern.FindAllString(text, -1)
	ids := make([]ULID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, decodeULID(m))
	}
	return ids
}
