// Package ulid - range.go maps timestamps and time intervals onto ULID bounds.

package ulid

import (
	"strconv"
	"time"
)

// Timestamp converts t to milliseconds since the Unix epoch, dropping
// sub-millisecond precision.
func Timestamp(t time.Time) int64 {
	return t.UnixMilli()
}

// MinFor returns the smallest ULID with timestamp ms (all-zero entropy).
// MinFor(0) is Minimum.
func MinFor(ms int64) (ULID, error) {
	if err := checkMillis(ms); err != nil {
		return ULID{}, err
	}
	if ms == 0 {
		return Minimum, nil
	}
	return fromParts(uint64(ms), [EntropyByteLen]byte{}), nil
}

// MaxFor returns the largest ULID with timestamp ms (entropy 2^80-1).
// MaxFor(MaxTime) is Maximum.
func MaxFor(ms int64) (ULID, error) {
	if err := checkMillis(ms); err != nil {
		return ULID{}, err
	}
	if ms == MaxTime {
		return Maximum, nil
	}
	return fromParts(uint64(ms), maxEntropyBytes), nil
}

// MinAt is MinFor for a time.Time.
func MinAt(t time.Time) (ULID, error) {
	ms, err := timeMillis(t)
	if err != nil {
		return ULID{}, err
	}
	return MinFor(ms)
}

// MaxAt is MaxFor for a time.Time.
func MaxAt(t time.Time) (ULID, error) {
	ms, err := timeMillis(t)
	if err != nil {
		return ULID{}, err
	}
	return MaxFor(ms)
}

var maxEntropyBytes = [EntropyByteLen]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// timeMillis converts t to milliseconds, reporting times before the Unix epoch
// as a RangeError and times past MaxTime as an OverflowError.
func timeMillis(t time.Time) (int64, error) {
	ms := t.UnixMilli()
	if ms < 0 {
		return 0, newRangeError("time", t.UTC().Format(time.RFC3339Nano), "must not precede the Unix epoch")
	}
	if ms > MaxTime {
		return 0, newOverflowError(TimestampOverflowType, strconv.FormatInt(ms, 10), strconv.FormatInt(MaxTime, 10))
	}
	return ms, nil
}

// Interval is a span of time. A zero Begin or End means the interval is
// unbounded on that side.
type Interval struct {
	Begin      time.Time
	End        time.Time
	ExcludeEnd bool
}

// Range is an interval of ULIDs. Begin is always inclusive; End is inclusive
// unless ExcludeEnd is set. A Range whose Begin sorts after End is valid and
// contains nothing.
type Range struct {
	Begin      ULID
	End        ULID
	ExcludeEnd bool
}

// RangeOf maps a time interval onto the ULIDs generated within it.
//
// The begin maps through MinFor (unbounded: Minimum). The end maps through
// MinFor and stays exclusive when ExcludeEnd is set, or through MaxFor and
// stays inclusive otherwise. An unbounded end always maps to an inclusive
// Maximum, whatever ExcludeEnd says.
//
// Example:
//
//	r, err := ulid.RangeOf(ulid.Interval{Begin: start, End: start.Add(time.Hour), ExcludeEnd: true})
//	if r.Contains(id) { ... }
func RangeOf(iv Interval) (Range, error) {
	r := Range{Begin: Minimum, End: Maximum}

	if !iv.Begin.IsZero() {
		begin, err := MinAt(iv.Begin)
		if err != nil {
			return Range{}, err
		}
		r.Begin = begin
	}

	if iv.End.IsZero() {
		return r, nil
	}

	var err error
	if iv.ExcludeEnd {
		r.End, err = MinAt(iv.End)
		r.ExcludeEnd = true
	} else {
		r.End, err = MaxAt(iv.End)
	}
	if err != nil {
		return Range{}, err
	}
	return r, nil
}

// RangeOfMillis is RangeOf for a bounded interval given in milliseconds.
func RangeOfMillis(begin, end int64, excludeEnd bool) (Range, error) {
	b, err := MinFor(begin)
	if err != nil {
		return Range{}, err
	}
	r := Range{Begin: b, ExcludeEnd: excludeEnd}
	if excludeEnd {
		r.End, err = MinFor(end)
	} else {
		r.End, err = MaxFor(end)
	}
	if err != nil {
		return Range{}, err
	}
	return r, nil
}

// Contains reports whether id lies within r.
func (r Range) Contains(id ULID) bool {
	if id.Before(r.Begin) {
		return false
	}
	if r.ExcludeEnd {
		return id.Before(r.End)
	}
	return !id.After(r.End)
}

// IsEmpty reports whether r contains no ULID at all.
func (r Range) IsEmpty() bool {
	c := r.Begin.Compare(r.End)
	return c > 0 || (c == 0 && r.ExcludeEnd)
}

// String renders r in interval notation, e.g. "[01ARZ3NDEK..., 01ARZ3NDEM...)".
func (r Range) String() string {
	closing := "]"
	if r.ExcludeEnd {
		closing = ")"
	}
	return "[" + r.Begin.String() + ", " + r.End.String() + closing
}
