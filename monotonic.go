// Package ulid - monotonic.go provides the MonotonicGenerator.
//
// # Algorithm
//
// The generator remembers the last ULID it produced. For each request:
//
//  1. First call, or a timestamp newer than the last one: draw fresh entropy.
//  2. Same timestamp, or an older one (clock regression): keep the last
//     timestamp and add one to the last entropy.
//  3. If the entropy is already 2^80-1, fail with an OverflowError of type
//     MonotonicOverflowType. The caller may wait for the next millisecond.
//
// Every result sorts strictly after the previous one, in value and in text,
// no matter how many goroutines share the generator.

package ulid

import (
	"crypto/rand"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds options for a MonotonicGenerator.
//
// Nil Entropy and Now fall back to the defaults from DefaultConfig().
// EnableMetrics has no such fallback: a zero Config leaves metrics off.
type Config struct {
	// Entropy is read for fresh randomness whenever the timestamp advances.
	// It is only read with the generator lock held.
	// Default: crypto/rand.Reader
	Entropy io.Reader

	// Now supplies the current time for GenerateNow.
	// Default: time.Now
	Now func() time.Time

	// EnableMetrics determines whether to collect internal metrics.
	// Metrics use atomic operations and have negligible performance impact.
	// Default: true
	EnableMetrics bool
}

// DefaultConfig returns a Config with production-ready defaults:
//   - Entropy: crypto/rand.Reader
//   - Now: time.Now
//   - EnableMetrics: true
func DefaultConfig() Config {
	return Config{
		Entropy:       rand.Reader,
		Now:           time.Now,
		EnableMetrics: true,
	}
}

// Metrics holds runtime counters for monitoring.
//
// All counters are monotonically increasing and updated with atomic operations.
type Metrics struct {
	Generated       int64 // ULIDs successfully generated
	SameTick        int64 // requests that reused the last timestamp
	ClockRegression int64 // requests whose timestamp was older than the last one
	EntropyOverflow int64 // requests rejected because a millisecond was exhausted
}

// MonotonicGenerator produces strictly increasing ULIDs.
//
// # Thread Safety
//
// MonotonicGenerator is safe for concurrent use. The whole read-decide-write
// sequence runs under one mutex, so no caller ever observes a partially
// updated state. A MonotonicGenerator must not be copied after first use;
// use Clone to get an independent generator.
type MonotonicGenerator struct {
	mu          sync.Mutex // protects primed, last, lastEncoded
	primed      bool       // false until the first successful generation
	last        ULID       // last ULID handed out
	lastEncoded string     // text form of last

	entropy        io.Reader
	now            func() time.Time
	metricsEnabled bool

	generated       atomic.Int64
	sameTick        atomic.Int64
	clockRegression atomic.Int64
	entropyOverflow atomic.Int64
}

// NewMonotonicGenerator creates a generator with DefaultConfig().
//
// Example:
//
//	gen := ulid.NewMonotonicGenerator()
//	id, err := gen.Generate(time.Now().UnixMilli())
func NewMonotonicGenerator() *MonotonicGenerator {
	return NewMonotonicGeneratorWithConfig(DefaultConfig())
}

// NewMonotonicGeneratorWithConfig creates a generator with custom configuration.
//
// Example:
//
//	cfg := ulid.DefaultConfig()
//	cfg.Entropy = mathrand.New(mathrand.NewSource(1)) // reproducible tests
//	gen := ulid.NewMonotonicGeneratorWithConfig(cfg)
func NewMonotonicGeneratorWithConfig(cfg Config) *MonotonicGenerator {
	if cfg.Entropy == nil {
		cfg.Entropy = rand.Reader
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &MonotonicGenerator{
		entropy:        cfg.Entropy,
		now:            cfg.Now,
		metricsEnabled: cfg.EnableMetrics,
	}
}

// Generate returns the next ULID for timestamp ms.
//
// Returns a RangeError or OverflowError for a timestamp outside [0, MaxTime],
// an OverflowError of type MonotonicOverflowType when the entropy space of the
// current millisecond is exhausted, and an error wrapping ErrEntropy when the
// entropy source fails. Failed calls leave the generator state unchanged.
//
// Generate panics with an *InvariantError if the computed ULID does not sort
// after the previous one. That can only happen through a defect in the
// generator and must not be recovered from by ordinary callers.
func (g *MonotonicGenerator) Generate(ms int64) (ULID, error) {
	if err := checkMillis(ms); err != nil {
		return ULID{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id, _, err := g.next(uint64(ms))
	return id, err
}

// Encode is Generate returning the canonical text form.
func (g *MonotonicGenerator) Encode(ms int64) (string, error) {
	if err := checkMillis(ms); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	_, encoded, err := g.next(uint64(ms))
	return encoded, err
}

// GenerateNow is Generate using the configured clock.
func (g *MonotonicGenerator) GenerateNow() (ULID, error) {
	ms, err := timeMillis(g.now())
	if err != nil {
		return ULID{}, err
	}
	return g.Generate(ms)
}

// GenerateBatch generates count ULIDs for timestamp ms under a single lock
// acquisition.
//
// If an error occurs part way through, the ULIDs generated so far are
// returned together with the error.
//
// Example:
//
//	ids, err := gen.GenerateBatch(time.Now().UnixMilli(), 1000)
//	if err != nil {
//	    // ids may contain a partial batch
//	}
func (g *MonotonicGenerator) GenerateBatch(ms int64, count int) ([]ULID, error) {
	if count <= 0 {
		return []ULID{}, nil
	}
	if err := checkMillis(ms); err != nil {
		return nil, err
	}

	ids := make([]ULID, 0, count)

	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 0; i < count; i++ {
		id, _, err := g.next(uint64(ms))
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// next performs one state transition. g.mu must be held.
func (g *MonotonicGenerator) next(ms uint64) (ULID, string, error) {
	var id ULID

	lastMs := uint64(g.last.Milliseconds())
	if !g.primed || ms > lastMs {
		var e [EntropyByteLen]byte
		if err := readEntropy(g.entropy, e[:]); err != nil {
			return ULID{}, "", err
		}
		id = fromParts(ms, e)
	} else {
		if ms < lastMs {
			g.count(&g.clockRegression)
		} else {
			g.count(&g.sameTick)
		}

		var ok bool
		id, ok = incrementEntropy(g.last)
		if !ok {
			g.count(&g.entropyOverflow)
			return ULID{}, "", newOverflowError(MonotonicOverflowType, strconv.FormatUint(lastMs, 10), maxEntropyBig.String())
		}
	}

	encoded := id.String()
	if g.primed && encoded <= g.lastEncoded {
		panic(newInvariantError(g.lastEncoded, encoded))
	}

	g.last, g.lastEncoded, g.primed = id, encoded, true
	g.count(&g.generated)
	return id, encoded, nil
}

// incrementEntropy adds one to the 80-bit entropy of id, keeping its
// timestamp. The boolean is false if the entropy was already 2^80-1.
func incrementEntropy(id ULID) (ULID, bool) {
	for i := ByteLen - 1; i >= TimestampByteLen; i-- {
		id[i]++
		if id[i] != 0 {
			return id, true
		}
	}
	return ULID{}, false
}

func (g *MonotonicGenerator) count(c *atomic.Int64) {
	if g.metricsEnabled {
		c.Add(1)
	}
}

// Last returns the most recently generated ULID and whether one exists.
//
// The value is a snapshot: with concurrent callers another Generate may
// already have replaced it by the time Last returns. Use it for diagnostics,
// never to derive the next identifier.
func (g *MonotonicGenerator) Last() (ULID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last, g.primed
}

// Clone returns an independent generator with its own lock, a copy of the
// current sequencing state and zeroed metrics.
//
// The clone and the original do not coordinate: both continue from the same
// last ULID, so they will produce overlapping sequences for equal timestamps.
func (g *MonotonicGenerator) Clone() *MonotonicGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &MonotonicGenerator{
		primed:         g.primed,
		last:           g.last,
		lastEncoded:    g.lastEncoded,
		entropy:        g.entropy,
		now:            g.now,
		metricsEnabled: g.metricsEnabled,
	}
}

// Metrics returns a snapshot of the generator's counters.
func (g *MonotonicGenerator) Metrics() Metrics {
	return Metrics{
		Generated:       g.generated.Load(),
		SameTick:        g.sameTick.Load(),
		ClockRegression: g.clockRegression.Load(),
		EntropyOverflow: g.entropyOverflow.Load(),
	}
}

// ResetMetrics sets all counters back to zero. Mostly useful in tests.
func (g *MonotonicGenerator) ResetMetrics() {
	g.generated.Store(0)
	g.sameTick.Store(0)
	g.clockRegression.Store(0)
	g.entropyOverflow.Store(0)
}

// Default generator shared by the package-level functions.
//
// It is created on first use. Applications that want isolation (tests,
// per-tenant sequences) should create their own MonotonicGenerator instead.
var (
	defaultGenerator     *MonotonicGenerator
	defaultGeneratorOnce sync.Once
)

// Default returns the process-wide MonotonicGenerator.
func Default() *MonotonicGenerator {
	defaultGeneratorOnce.Do(func() {
		defaultGenerator = NewMonotonicGenerator()
	})
	return defaultGenerator
}

// Generate returns the next ULID from the default generator at the current time.
//
// Example:
//
//	id, err := ulid.Generate()
//	if err != nil {
//	    return err
//	}
//	fmt.Println(id) // 01ARZ3NDEKTSV4RRFFQ69G5FAV
func Generate() (ULID, error) {
	return Default().GenerateNow()
}

// GenerateAt returns the next ULID from the default generator for time t.
func GenerateAt(t time.Time) (ULID, error) {
	ms, err := timeMillis(t)
	if err != nil {
		return ULID{}, err
	}
	return Default().Generate(ms)
}

// MustGenerate is like Generate but panics on error.
func MustGenerate() ULID {
	id, err := Generate()
	if err != nil {
		panic(err)
	}
	return id
}

// DefaultMetrics returns metrics from the default generator.
func DefaultMetrics() Metrics {
	return Default().Metrics()
}
