package attainment

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "attainment.db")
	conn, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestUpsertIndirectInsertThenUpdate(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	if _, err := conn.ExecContext(ctx,
		`INSERT INTO departments (id, code, name) VALUES (1, 'CSE', 'Computer Science')`); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.ExecContext(ctx,
		`INSERT INTO program_outcomes (id, department_id, code, target_attainment)
		 VALUES (3, 1, 'PO3', 70)`); err != nil {
		t.Fatal(err)
	}
	store := NewSQLStore(conn)

	entry := IndirectEntry{DepartmentID: 1, POID: 3, AcademicYear: "2025-26", Source: "graduate_survey", Pct: 70}
	if err := store.UpsertIndirect(ctx, entry); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	got, err := store.IndirectPct(ctx, 3, "2025-26")
	if err != nil || got == nil || *got != 70 {
		t.Fatalf("after insert: pct=%v err=%v, want 70", got, err)
	}

	// Same (po, year, source) again must update in place, not violate the
	// unique constraint or add a row.
	entry.Pct = 82
	if err := store.UpsertIndirect(ctx, entry); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err = store.IndirectPct(ctx, 3, "2025-26")
	if err != nil || got == nil || *got != 82 {
		t.Fatalf("after update: pct=%v err=%v, want 82", got, err)
	}
	var rows int
	if err := conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM indirect_attainment WHERE po_id=3`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}

	// A second source is a distinct row and the read side averages them.
	entry.Source = "exit_exam"
	entry.Pct = 62
	if err := store.UpsertIndirect(ctx, entry); err != nil {
		t.Fatalf("second source: %v", err)
	}
	got, err = store.IndirectPct(ctx, 3, "2025-26")
	if err != nil || got == nil || *got != 72 {
		t.Fatalf("averaged pct=%v err=%v, want 72", got, err)
	}
}
