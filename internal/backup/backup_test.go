package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T, sessions ...string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "liftlit.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE workout_sessions (id TEXT PRIMARY KEY, goal_type TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	for _, id := range sessions {
		if _, err := db.Exec(`INSERT INTO workout_sessions (id, goal_type) VALUES (?, 'strength')`, id); err != nil {
			t.Fatalf("failed to insert session: %v", err)
		}
	}
	return dbPath
}

func countSessions(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM workout_sessions`).Scan(&n); err != nil {
		t.Fatalf("failed to count sessions in %s: %v", path, err)
	}
	return n
}

// fixedClock returns a clock that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Second)
		return t
	}
}

func TestCreate(t *testing.T) {
	dbPath := newTestDB(t, "s1", "s2")
	mgr := New(dbPath)
	mgr.now = fixedClock(time.Date(2026, 3, 14, 18, 0, 0, 0, time.Local))

	snap, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if got, want := snap.Name(), "liftlit-20260314-180000.db"; got != want {
		t.Errorf("snapshot name = %q, want %q", got, want)
	}
	if filepath.Dir(snap.Path) != mgr.Dir() {
		t.Errorf("snapshot written to %s, want %s", filepath.Dir(snap.Path), mgr.Dir())
	}
	if snap.Size == 0 {
		t.Error("snapshot size is 0")
	}
	if n := countSessions(t, snap.Path); n != 2 {
		t.Errorf("snapshot has %d sessions, want 2", n)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := New(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestCreateSameSecondAddsCounter(t *testing.T) {
	dbPath := newTestDB(t)
	mgr := New(dbPath)
	at := time.Date(2026, 3, 14, 18, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return at }

	first, err := mgr.Create()
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}

	if first.Path == second.Path {
		t.Fatalf("both snapshots written to %s", first.Path)
	}
	if got, want := second.Name(), "liftlit-20260314-180000-1.db"; got != want {
		t.Errorf("second name = %q, want %q", got, want)
	}
	if !second.TakenAt.Equal(at) {
		t.Errorf("second TakenAt = %v, want %v", second.TakenAt, at)
	}
}

func TestListNewestFirstAndIgnoresStrangers(t *testing.T) {
	dbPath := newTestDB(t)
	mgr := New(dbPath)
	mgr.now = fixedClock(time.Date(2026, 3, 14, 18, 0, 0, 0, time.Local))

	for i := 0; i < 3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}
	for _, name := range []string{"notes.txt", "liftlit-garbage.db", "other-20260314-180000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	snaps, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("List returned %d snapshots, want 3", len(snaps))
	}
	for i := 1; i < len(snaps); i++ {
		if !snaps[i-1].TakenAt.After(snaps[i].TakenAt) {
			t.Errorf("snapshots not newest first: %v before %v", snaps[i-1].TakenAt, snaps[i].TakenAt)
		}
	}
}

func TestListWithoutDirectory(t *testing.T) {
	mgr := New(filepath.Join(t.TempDir(), "liftlit.db"))
	snaps, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("List returned %d snapshots, want 0", len(snaps))
	}
}

func TestRotationKeepsNewest(t *testing.T) {
	dbPath := newTestDB(t)
	mgr := New(dbPath)
	mgr.now = fixedClock(time.Date(2026, 3, 1, 6, 0, 0, 0, time.Local))

	var last Snapshot
	for i := 0; i < Keep+3; i++ {
		snap, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		last = snap
	}

	snaps, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(snaps) != Keep {
		t.Fatalf("kept %d snapshots, want %d", len(snaps), Keep)
	}
	if snaps[0].Path != last.Path {
		t.Errorf("newest kept = %s, want %s", snaps[0].Name(), last.Name())
	}
}

func TestRestore(t *testing.T) {
	dbPath := newTestDB(t, "s1")
	mgr := New(dbPath)
	mgr.now = fixedClock(time.Date(2026, 3, 14, 18, 0, 0, 0, time.Local))

	snap, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO workout_sessions (id, goal_type) VALUES ('s2', 'hypertrophy')`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	prior, err := mgr.Restore(snap.Path)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if n := countSessions(t, dbPath); n != 1 {
		t.Errorf("restored database has %d sessions, want 1", n)
	}
	if prior.Path == "" {
		t.Fatal("Restore did not snapshot the current database")
	}
	if n := countSessions(t, prior.Path); n != 2 {
		t.Errorf("pre-restore snapshot has %d sessions, want 2", n)
	}
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	dbPath := newTestDB(t, "s1")
	mgr := New(dbPath)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("definitely not sqlite, just some bytes padding the header out"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(bogus); err == nil {
		t.Fatal("expected error restoring an invalid file")
	}
	if n := countSessions(t, dbPath); n != 1 {
		t.Errorf("database changed after failed restore: %d sessions", n)
	}
}

func TestResolve(t *testing.T) {
	dbPath := newTestDB(t)
	mgr := New(dbPath)
	snap, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := mgr.Resolve(snap.Name())
	if err != nil {
		t.Fatalf("Resolve by name failed: %v", err)
	}
	if got != snap.Path {
		t.Errorf("Resolve(%q) = %s, want %s", snap.Name(), got, snap.Path)
	}

	if _, err := mgr.Resolve("liftlit-19990101-000000.db"); err == nil {
		t.Error("expected error for unknown backup")
	}
}
