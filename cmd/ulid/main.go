// ULID CLI - Command-line tool for ULID generation and inspection
//
// Usage:
//
//	ulid generate [flags]            Generate ULIDs
//	ulid inspect <ulid>...           Decode and show the parts of a ULID
//	ulid validate <s>...             Check strings against the canonical form
//	ulid normalize <s>...            Rewrite transcription variants
//	ulid range --from T [--to T]     Show the ULID bounds of a time interval
//	ulid bench                       Run generation benchmarks
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sxyafiq/ulid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

const version = "1.0.0"

// errInvalid reports that at least one argument failed validation. The
// details have already been written to the output.
var errInvalid = errors.New("one or more inputs are invalid")

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	var err error
	command := os.Args[1]
	switch command {
	case "generate", "gen", "g":
		err = cmdGenerate(os.Args[2:], os.Stdout)
	case "inspect", "parse", "i":
		err = cmdInspect(os.Args[2:], os.Stdout)
	case "validate", "val", "v":
		err = cmdValidate(os.Args[2:], os.Stdout)
	case "normalize", "norm", "n":
		err = cmdNormalize(os.Args[2:], os.Stdout)
	case "range", "r":
		err = cmdRange(os.Args[2:], os.Stdout)
	case "bench", "benchmark", "b":
		err = cmdBench(os.Args[2:], os.Stdout)
	case "version", "--version":
		fmt.Printf("ulid CLI version %s\n", version)
	case "help", "--help", "-h":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, errInvalid) && !errors.Is(err, flag.ErrHelp) {
			logger.Error("command failed", "command", command, "error", err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `ULID CLI - Universally Unique Lexicographically Sortable Identifiers

Usage:
  ulid <command> [flags]

Commands:
  generate, gen, g      Generate ULIDs
  inspect, parse, i     Decode and show the parts of a ULID
  validate, val, v      Check strings against the canonical form
  normalize, norm, n    Rewrite transcription variants (O->0, I/L->1, hyphens)
  range, r              Show the ULID bounds of a time interval
  bench, b              Run generation benchmarks
  version               Show version information
  help                  Show this help message

Examples:
  # Generate a single ULID
  ulid generate

  # Generate 10 strictly increasing ULIDs for a fixed time
  ulid generate --count 10 --monotonic --at 2024-01-01T00:00:00Z

  # Inspect a ULID as YAML
  ulid inspect --yaml 01ARZ3NDEKTSV4RRFFQ69G5FAV

  # Bounds for one hour of data
  ulid range --from 2024-01-01T00:00:00Z --to 2024-01-01T01:00:00Z --exclusive

For detailed help on a command:
  ulid <command> --help

`)
}

// parseTimeFlag accepts RFC 3339 or milliseconds since the Unix epoch.
func parseTimeFlag(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q is neither RFC 3339 nor milliseconds", s)
	}
	return t, nil
}

// ============================================================================
// Generate Command
// ============================================================================

func cmdGenerate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	count := fs.Int("count", 1, "Number of ULIDs to generate")
	at := fs.String("at", "", "Timestamp to use, RFC 3339 or milliseconds (default: now)")
	monotonic := fs.Bool("monotonic", false, "Strictly increasing output within the same millisecond")
	jsonOutput := fs.Bool("json", false, "Output as JSON with decoded parts")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", *count)
	}

	ts := time.Now()
	if *at != "" {
		var err error
		if ts, err = parseTimeFlag(*at); err != nil {
			return err
		}
	}

	ids := make([]ulid.ULID, 0, *count)
	start := time.Now()

	if *monotonic {
		gen := ulid.NewMonotonicGenerator()
		batch, err := gen.GenerateBatch(ulid.Timestamp(ts), *count)
		if err != nil {
			return err
		}
		ids = append(ids, batch...)
	} else {
		for i := 0; i < *count; i++ {
			id, err := ulid.At(ts)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
	}

	duration := time.Since(start)

	if *jsonOutput {
		infos := make([]idInfo, len(ids))
		for i, id := range ids {
			infos[i] = describe(id)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	for _, id := range ids {
		fmt.Fprintln(out, id)
	}

	if *count > 100 {
		logger.Info("generated",
			"count", *count,
			"duration", duration,
			"rate_per_sec", int64(float64(*count)/duration.Seconds()))
	}
	return nil
}

// ============================================================================
// Inspect Command
// ============================================================================

// idInfo is the decoded view of a ULID printed by inspect and generate --json.
type idInfo struct {
	ULID         string `json:"ulid" yaml:"ulid"`
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
	Milliseconds int64  `json:"milliseconds" yaml:"milliseconds"`
	Entropy      string `json:"entropy" yaml:"entropy"`
	Integer      string `json:"integer" yaml:"integer"`
	Hex          string `json:"hex" yaml:"hex"`
	UUID         string `json:"uuid" yaml:"uuid"`
}

func describe(id ulid.ULID) idInfo {
	return idInfo{
		ULID:         id.String(),
		Timestamp:    id.Time().Format(time.RFC3339Nano),
		Milliseconds: id.Milliseconds(),
		Entropy:      id.EncodedEntropy(),
		Integer:      id.Big().String(),
		Hex:          fmt.Sprintf("%x", id[:]),
		UUID:         uuid.UUID(id).String(),
	}
}

func cmdInspect(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	variant := fs.Bool("variant", false, "Accept transcription variants (lowercase, hyphens, O/I/L)")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	yamlOutput := fs.Bool("yaml", false, "Output as YAML")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: ulid inspect [--variant] [--json|--yaml] <ulid>...")
	}

	parse := ulid.Parse
	if *variant {
		parse = ulid.ParseVariant
	}

	infos := make([]idInfo, 0, fs.NArg())
	for _, s := range fs.Args() {
		id, err := parse(s)
		if err != nil {
			return err
		}
		infos = append(infos, describe(id))
	}

	switch {
	case *jsonOutput:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case *yamlOutput:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(infos); err != nil {
			return err
		}
		return enc.Close()
	}

	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "ULID:         %s\n", info.ULID)
		fmt.Fprintf(out, "Timestamp:    %s (%d ms)\n", info.Timestamp, info.Milliseconds)
		fmt.Fprintf(out, "Entropy:      %s\n", info.Entropy)
		fmt.Fprintf(out, "Integer:      %s\n", info.Integer)
		fmt.Fprintf(out, "Hex:          %s\n", info.Hex)
		fmt.Fprintf(out, "UUID:         %s\n", info.UUID)
	}
	return nil
}

// ============================================================================
// Validate / Normalize Commands
// ============================================================================

func cmdValidate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	variant := fs.Bool("variant", false, "Accept transcription variants")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: ulid validate [--variant] <s>...")
	}

	parse := ulid.Parse
	if *variant {
		parse = ulid.ParseVariant
	}

	invalid := 0
	for _, s := range fs.Args() {
		if _, err := parse(s); err != nil {
			fmt.Fprintf(out, "INVALID %s: %v\n", s, err)
			invalid++
			continue
		}
		fmt.Fprintf(out, "VALID   %s\n", s)
	}

	if invalid > 0 {
		return errInvalid
	}
	return nil
}

func cmdNormalize(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: ulid normalize <s>...")
	}

	invalid := 0
	for _, s := range args {
		n := ulid.Normalize(s)
		if !ulid.IsValid(n) {
			fmt.Fprintf(out, "INVALID %s\n", s)
			invalid++
			continue
		}
		fmt.Fprintln(out, n)
	}

	if invalid > 0 {
		return errInvalid
	}
	return nil
}

// ============================================================================
// Range Command
// ============================================================================

func cmdRange(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("range", flag.ContinueOnError)
	from := fs.String("from", "", "Interval start, RFC 3339 or milliseconds (default: unbounded)")
	to := fs.String("to", "", "Interval end, RFC 3339 or milliseconds (default: unbounded)")
	exclusive := fs.Bool("exclusive", false, "Exclude the end instant")

	if err := fs.Parse(args); err != nil {
		return err
	}

	iv := ulid.Interval{ExcludeEnd: *exclusive}
	var err error
	if *from != "" {
		if iv.Begin, err = parseTimeFlag(*from); err != nil {
			return err
		}
	}
	if *to != "" {
		if iv.End, err = parseTimeFlag(*to); err != nil {
			return err
		}
	}

	r, err := ulid.RangeOf(iv)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, r)
	if r.IsEmpty() {
		logger.Warn("interval is empty", "from", *from, "to", *to)
	}
	return nil
}

// ============================================================================
// Benchmark Command
// ============================================================================

func cmdBench(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	duration := fs.Duration("duration", 3*time.Second, "Benchmark duration per test")
	goroutines := fs.Int("goroutines", 1, "Concurrent callers sharing one generator")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *goroutines < 1 {
		return fmt.Errorf("--goroutines must be at least 1, got %d", *goroutines)
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(out, "Running benchmarks (duration: %v, goroutines: %d)\n\n", *duration, *goroutines)

	gen := ulid.NewMonotonicGenerator()
	tests := []struct {
		name string
		fn   func() error
	}{
		{"Monotonic generation", func() error { _, err := gen.GenerateNow(); return err }},
		{"Random generation", func() error { _, err := ulid.Random(time.Now().UnixMilli()); return err }},
		{"Parse", func() error { _, err := ulid.Parse("01ARZ3NDEKTSV4RRFFQ69G5FAV"); return err }},
	}

	for i, test := range tests {
		count, elapsed, err := runFor(*duration, *goroutines, test.fn)
		if err != nil {
			return fmt.Errorf("%s: %w", test.name, err)
		}
		p.Fprintf(out, "%d. %s:\n", i+1, test.name)
		p.Fprintf(out, "   Operations:     %d\n", count)
		p.Fprintf(out, "   Duration:       %v\n", elapsed.Round(time.Millisecond))
		p.Fprintf(out, "   Rate:           %d ops/sec (%.0f ns/op)\n\n",
			int64(float64(count)/elapsed.Seconds()),
			float64(elapsed.Nanoseconds())/float64(count))
	}

	m := gen.Metrics()
	p.Fprintf(out, "Generator metrics: generated=%d same_tick=%d clock_regression=%d entropy_overflow=%d\n",
		m.Generated, m.SameTick, m.ClockRegression, m.EntropyOverflow)
	return nil
}

// runFor calls fn from the given number of goroutines until d has elapsed.
func runFor(d time.Duration, goroutines int, fn func() error) (int64, time.Duration, error) {
	var (
		count    atomic.Int64
		wg       sync.WaitGroup
		firstErr error
		errOnce  sync.Once
	)

	start := time.Now()
	deadline := start.Add(d)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(deadline) {
				if err := fn(); err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	if count.Load() == 0 && firstErr == nil {
		firstErr = errors.New("no operations completed")
	}
	return count.Load(), elapsed, firstErr
}
