package ulid

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE events (
		id      CHAR(26) PRIMARY KEY,
		raw     BLOB,
		parent  CHAR(26),
		payload TEXT
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func TestSQL_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	id := MustParse(refEncoded)

	if _, err := db.Exec(`INSERT INTO events (id, raw, parent, payload) VALUES (?, ?, NULL, ?)`,
		id, id.Bytes(), "created"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var gotText, gotRaw, gotParent ULID
	err := db.QueryRow(`SELECT id, raw, parent FROM events WHERE id = ?`, id).
		Scan(&gotText, &gotRaw, &gotParent)
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	if gotText != id {
		t.Errorf("TEXT column scanned as %s, want %s", gotText, id)
	}
	if gotRaw != id {
		t.Errorf("BLOB column scanned as %s, want %s", gotRaw, id)
	}
	if !gotParent.IsZero() {
		t.Errorf("NULL column scanned as %s, want zero", gotParent)
	}
}

// TestSQL_OrderAndRange checks that TEXT ordering in the database matches
// generation order and that range bounds select by time.
func TestSQL_OrderAndRange(t *testing.T) {
	db := openTestDB(t)
	gen := NewMonotonicGenerator()

	var generated []ULID
	for ms := int64(10_000); ms < 10_010; ms++ {
		for i := 0; i < 5; i++ {
			id, err := gen.Generate(ms)
			if err != nil {
				t.Fatalf("Generate(%d) error = %v", ms, err)
			}
			generated = append(generated, id)
		}
	}

	// Insert in reverse so that ordering comes from the index, not insertion.
	for i := len(generated) - 1; i >= 0; i-- {
		if _, err := db.Exec(`INSERT INTO events (id) VALUES (?)`, generated[i]); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	rows, err := db.Query(`SELECT id FROM events ORDER BY id`)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	var ordered []ULID
	for rows.Next() {
		var id ULID
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("scan: %v", err)
		}
		ordered = append(ordered, id)
	}
	rows.Close()

	if len(ordered) != len(generated) {
		t.Fatalf("got %d rows, want %d", len(ordered), len(generated))
	}
	for i := range generated {
		if ordered[i] != generated[i] {
			t.Fatalf("row %d = %s, want %s", i, ordered[i], generated[i])
		}
	}

	// [10_003, 10_006) covers three milliseconds of five IDs each.
	r, err := RangeOfMillis(10_003, 10_006, true)
	if err != nil {
		t.Fatalf("RangeOfMillis() error = %v", err)
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM events WHERE id >= ? AND id < ?`, r.Begin, r.End).
		Scan(&count); err != nil {
		t.Fatalf("range query: %v", err)
	}
	if count != 15 {
		t.Errorf("range %s matched %d rows, want 15", r, count)
	}
}

func TestSQL_ScanRejectsGarbage(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Exec(`INSERT INTO events (id) VALUES ('not-a-ulid')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var id ULID
	err := db.QueryRow(`SELECT id FROM events`).Scan(&id)
	if err == nil {
		t.Fatal("Scan() of invalid text should fail")
	}
}
