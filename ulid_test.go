package ulid

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"
)

// Reference identifier from the ULID documentation.
const (
	refEncoded   = "01ARZ3NDEKTSV4RRFFQ69G5FAV"
	refMillis    = int64(1469922850259)
	refValue     = "1777027686520646174104517696511196507"
	refEntropy   = "1012768647078601740696923"
	refTimestamp = "01ARZ3NDEK"
	refRandom    = "TSV4RRFFQ69G5FAV"
)

func bigString(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad big integer literal %q", s)
	}
	return v
}

// TestReferenceVector checks every accessor against the documented identifier.
func TestReferenceVector(t *testing.T) {
	id, err := Parse(refEncoded)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := id.String(); got != refEncoded {
		t.Errorf("String() = %s, want %s", got, refEncoded)
	}
	if got := id.Big().String(); got != refValue {
		t.Errorf("Big() = %s, want %s", got, refValue)
	}
	if got := id.Milliseconds(); got != refMillis {
		t.Errorf("Milliseconds() = %d, want %d", got, refMillis)
	}
	if got := id.Entropy().String(); got != refEntropy {
		t.Errorf("Entropy() = %s, want %s", got, refEntropy)
	}
	if got := id.EncodedTimestamp(); got != refTimestamp {
		t.Errorf("EncodedTimestamp() = %s, want %s", got, refTimestamp)
	}
	if got := id.EncodedEntropy(); got != refRandom {
		t.Errorf("EncodedEntropy() = %s, want %s", got, refRandom)
	}

	wantTime := time.Date(2016, 7, 30, 23, 54, 10, 259*int(time.Millisecond), time.UTC)
	if got := id.Time(); !got.Equal(wantTime) {
		t.Errorf("Time() = %v, want %v", got, wantTime)
	}

	rebuilt, err := New(refMillis, bigString(t, refEntropy))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if rebuilt != id {
		t.Errorf("New(ms, entropy) = %s, want %s", rebuilt, id)
	}

	fromValue, err := FromBig(bigString(t, refValue))
	if err != nil {
		t.Fatalf("FromBig() error = %v", err)
	}
	if fromValue != id {
		t.Errorf("FromBig() = %s, want %s", fromValue, id)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		ms       int64
		entropy  *big.Int
		want     string
		wantType error
	}{
		{"zero", 0, big.NewInt(0), "00000000000000000000000000", nil},
		{"timestamp 42", 42, big.NewInt(0), "000000001A0000000000000000", nil},
		{"timestamp 42 entropy 1", 42, big.NewInt(1), "000000001A0000000000000001", nil},
		{"max entropy", 42, MaxEntropy(), "000000001AZZZZZZZZZZZZZZZZ", nil},
		{"max everything", MaxTime, MaxEntropy(), "7ZZZZZZZZZZZZZZZZZZZZZZZZZ", nil},
		{"negative timestamp", -1, big.NewInt(0), "", ErrRange},
		{"timestamp overflow", MaxTime + 1, big.NewInt(0), "", ErrOverflow},
		{"negative entropy", 0, big.NewInt(-1), "", ErrRange},
		{"nil entropy", 0, nil, "", ErrRange},
		{"entropy overflow", 0, new(big.Int).Lsh(big.NewInt(1), EntropyBits), "", ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := New(tt.ms, tt.entropy)
			if tt.wantType != nil {
				if !errors.Is(err, tt.wantType) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantType)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := id.String(); got != tt.want {
				t.Errorf("New() = %s, want %s", got, tt.want)
			}

			encoded, err := Encode(tt.ms, tt.entropy)
			if err != nil || encoded != tt.want {
				t.Errorf("Encode() = %s, %v; want %s", encoded, err, tt.want)
			}
		})
	}
}

func TestNew_OverflowTypes(t *testing.T) {
	_, err := New(MaxTime+1, big.NewInt(0))
	if oe, ok := GetOverflowError(err); !ok || oe.Type != TimestampOverflowType {
		t.Errorf("timestamp overflow: got %v", err)
	}

	_, err = New(0, new(big.Int).Lsh(big.NewInt(1), EntropyBits))
	if oe, ok := GetOverflowError(err); !ok || oe.Type != EntropyOverflowType {
		t.Errorf("entropy overflow: got %v", err)
	}

	_, err = FromBig(new(big.Int).Lsh(big.NewInt(1), TimestampBits+EntropyBits))
	if oe, ok := GetOverflowError(err); !ok || oe.Type != ValueOverflowType {
		t.Errorf("value overflow: got %v", err)
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew() with negative timestamp did not panic")
		}
	}()
	MustNew(-1, big.NewInt(0))
}

func TestFromBig(t *testing.T) {
	tests := []struct {
		name    string
		value   *big.Int
		want    ULID
		wantErr error
	}{
		{"zero", big.NewInt(0), Minimum, nil},
		{"max", MaxValue(), Maximum, nil},
		{"negative", big.NewInt(-5), ULID{}, ErrRange},
		{"nil", nil, ULID{}, ErrRange},
		{"too large", new(big.Int).Add(MaxValue(), big.NewInt(1)), ULID{}, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromBig(tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("FromBig() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromBig() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FromBig() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFromBytes(t *testing.T) {
	id := MustParse(refEncoded)

	got, err := FromBytes(id.Bytes())
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	if got != id {
		t.Errorf("FromBytes() = %s, want %s", got, id)
	}

	for _, n := range []int{0, 15, 17} {
		if _, err := FromBytes(make([]byte, n)); !IsFormatError(err) {
			t.Errorf("FromBytes(%d bytes) error = %v, want FormatError", n, err)
		}
	}
}

func TestBytes_IsCopy(t *testing.T) {
	id := MustParse(refEncoded)
	b := id.Bytes()
	b[0] = 0xFF
	if id.String() != refEncoded {
		t.Error("mutating Bytes() result changed the ULID")
	}
}

func TestComponentBytes(t *testing.T) {
	id := MustParse(refEncoded)
	ts := id.TimestampBytes()
	e := id.EntropyBytes()

	var joined []byte
	joined = append(joined, ts[:]...)
	joined = append(joined, e[:]...)
	if string(joined) != string(id[:]) {
		t.Errorf("TimestampBytes()+EntropyBytes() = %x, want %x", joined, id[:])
	}
}

func TestGoString(t *testing.T) {
	got := MustParse(refEncoded).GoString()
	want := "ulid.ULID(2016-07-30 23:54:10.259 UTC: " + refEncoded + ")"
	if got != want {
		t.Errorf("GoString() = %s, want %s", got, want)
	}
}

func TestIsZero(t *testing.T) {
	if !Minimum.IsZero() || !(ULID{}).IsZero() {
		t.Error("zero ULID should report IsZero()")
	}
	if Maximum.IsZero() {
		t.Error("Maximum should not report IsZero()")
	}
}

// ============================================================================
// Ordering
// ============================================================================

func TestComparison(t *testing.T) {
	a := MustNew(1000, big.NewInt(5))
	b := MustNew(1000, big.NewInt(6))
	c := MustNew(1001, big.NewInt(0))

	if !a.Before(b) || !b.Before(c) || !a.Before(c) {
		t.Error("Before() ordering wrong")
	}
	if !c.After(a) || a.After(b) {
		t.Error("After() ordering wrong")
	}
	if a.Compare(a) != 0 || !a.Equal(MustNew(1000, big.NewInt(5))) {
		t.Error("Equal()/Compare() on equal values wrong")
	}

	// Value order, byte order and text order agree.
	if (a.String() < b.String()) != a.Before(b) || (b.String() < c.String()) != b.Before(c) {
		t.Error("text order disagrees with value order")
	}
	if a.Big().Cmp(c.Big()) != a.Compare(c) {
		t.Error("integer order disagrees with byte order")
	}
}

func TestNextPrev(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		next   string
		nextOK bool
		prev   string
		prevOK bool
	}{
		{"minimum", "00000000000000000000000000", "00000000000000000000000001", true, "", false},
		{"maximum", "7ZZZZZZZZZZZZZZZZZZZZZZZZZ", "", false, "7ZZZZZZZZZZZZZZZZZZZZZZZZY", true},
		{"entropy carry", "0000000000ZZZZZZZZZZZZZZZZ", "00000000010000000000000000", true, "0000000000ZZZZZZZZZZZZZZZY", true},
		{"timestamp borrow", "00000000010000000000000000", "00000000010000000000000001", true, "0000000000ZZZZZZZZZZZZZZZZ", true},
		{"half boundary", "0000000000000FZZZZZZZZZZZZ", "0000000000000G000000000000", true, "0000000000000FZZZZZZZZZZZY", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := MustParse(tt.in)

			next, ok := id.Next()
			if ok != tt.nextOK {
				t.Fatalf("Next() ok = %v, want %v", ok, tt.nextOK)
			}
			if ok && next.String() != tt.next {
				t.Errorf("Next() = %s, want %s", next, tt.next)
			}

			prev, ok := id.Prev()
			if ok != tt.prevOK {
				t.Fatalf("Prev() ok = %v, want %v", ok, tt.prevOK)
			}
			if ok && prev.String() != tt.prev {
				t.Errorf("Prev() = %s, want %s", prev, tt.prev)
			}
		})
	}
}

func TestNextPrev_MatchBigArithmetic(t *testing.T) {
	one := big.NewInt(1)
	for _, s := range []string{refEncoded, "01BX5ZZKBKACTAV9WEVGEMMVRY", "0000000000000FZZZZZZZZZZZZ"} {
		id := MustParse(s)

		next, _ := id.Next()
		if want := new(big.Int).Add(id.Big(), one); next.Big().Cmp(want) != 0 {
			t.Errorf("%s.Next() = %s, want %s", s, next.Big(), want)
		}
		prev, _ := id.Prev()
		if want := new(big.Int).Sub(id.Big(), one); prev.Big().Cmp(want) != 0 {
			t.Errorf("%s.Prev() = %s, want %s", s, prev.Big(), want)
		}
	}
}

func TestSort(t *testing.T) {
	ids := []ULID{
		MustNew(3, big.NewInt(0)),
		Maximum,
		MustNew(1, big.NewInt(9)),
		Minimum,
		MustNew(1, big.NewInt(2)),
	}
	Sort(ids)

	for i := 1; i < len(ids); i++ {
		if !ids[i-1].Before(ids[i]) {
			t.Errorf("Sort() not ascending at %d: %s >= %s", i, ids[i-1], ids[i])
		}
	}
	if ids[0] != Minimum || ids[len(ids)-1] != Maximum {
		t.Error("Sort() did not place Minimum first and Maximum last")
	}
}

// ============================================================================
// Marshaling
// ============================================================================

func TestJSON(t *testing.T) {
	type record struct {
		ID   ULID   `json:"id"`
		Name string `json:"name"`
	}

	in := record{ID: MustParse(refEncoded), Name: "order"}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if want := `{"id":"` + refEncoded + `","name":"order"}`; string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}

	var out record
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if out != in {
		t.Errorf("json.Unmarshal() = %+v, want %+v", out, in)
	}
}

func TestJSON_Lowercase(t *testing.T) {
	var id ULID
	if err := json.Unmarshal([]byte(`"`+strings.ToLower(refEncoded)+`"`), &id); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if id.String() != refEncoded {
		t.Errorf("json.Unmarshal() = %s, want %s", id, refEncoded)
	}
}

func TestJSON_Null(t *testing.T) {
	id := MustParse(refEncoded)
	if err := id.UnmarshalJSON([]byte("null")); err != nil {
		t.Fatalf("UnmarshalJSON(null) error = %v", err)
	}
	if !id.IsZero() {
		t.Errorf("UnmarshalJSON(null) = %s, want zero", id)
	}
}

func TestJSON_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"number", `12345`, ErrFormat},
		{"empty string", `""`, ErrFormat},
		{"bad symbol", `"01ARZ3NDEKTSV4RRFFQ69G5FAU"`, ErrFormat},
		{"overflow", `"80000000000000000000000000"`, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ULID
			if err := id.UnmarshalJSON([]byte(tt.input)); !errors.Is(err, tt.wantErr) {
				t.Errorf("UnmarshalJSON(%s) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestJSON_MapKey(t *testing.T) {
	m := map[ULID]int{MustParse(refEncoded): 7}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var back map[ULID]int
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if back[MustParse(refEncoded)] != 7 {
		t.Errorf("map round trip = %v", back)
	}
}

func TestBinary(t *testing.T) {
	id := MustParse(refEncoded)
	data, err := id.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	if len(data) != ByteLen {
		t.Fatalf("MarshalBinary() length = %d, want %d", len(data), ByteLen)
	}

	var back ULID
	if err := back.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}
	if back != id {
		t.Errorf("UnmarshalBinary() = %s, want %s", back, id)
	}

	if err := back.UnmarshalBinary(data[:8]); !IsFormatError(err) {
		t.Errorf("UnmarshalBinary(8 bytes) error = %v, want FormatError", err)
	}
}

func TestScan(t *testing.T) {
	id := MustParse(refEncoded)

	tests := []struct {
		name    string
		value   interface{}
		want    ULID
		wantErr bool
	}{
		{"string", refEncoded, id, false},
		{"text bytes", []byte(refEncoded), id, false},
		{"binary bytes", id.Bytes(), id, false},
		{"nil", nil, ULID{}, false},
		{"int", 42, ULID{}, true},
		{"short string", "01ARZ", ULID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ULID
			err := got.Scan(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Scan() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValue(t *testing.T) {
	v, err := MustParse(refEncoded).Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if s, ok := v.(string); !ok || s != refEncoded {
		t.Errorf("Value() = %v, want %s", v, refEncoded)
	}
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkString(b *testing.B) {
	id := MustParse(refEncoded)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = id.String()
	}
}

func BenchmarkParse(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Parse(refEncoded)
	}
}

func BenchmarkNext(b *testing.B) {
	id := MustParse(refEncoded)
	for i := 0; i < b.N; i++ {
		id, _ = id.Next()
	}
}
