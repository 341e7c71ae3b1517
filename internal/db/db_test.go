package db

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/backlight/internal/monitoring"
	"github.com/banshee-data/backlight/internal/testutil"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	m.Run()
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "telemetry.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_PragmasAndMigrations(t *testing.T) {
	db := openTestDB(t)

	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %s, want wal", journalMode)
	}

	var busyTimeout int
	if err := db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
		t.Fatalf("query busy_timeout: %v", err)
	}
	if busyTimeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", busyTimeout)
	}

	version, dirty, err := db.MigrateVersion()
	if err != nil {
		t.Fatalf("MigrateVersion: %v", err)
	}
	if version != 2 || dirty {
		t.Errorf("version = %d dirty = %v, want 2 clean", version, dirty)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.db")
	db, err := Open(path)
	testutil.AssertNoError(t, err)
	db.Close()

	db, err = Open(path)
	testutil.AssertNoError(t, err)
	defer db.Close()
	if db.Path() != path {
		t.Errorf("Path() = %s, want %s", db.Path(), path)
	}
}

func TestMigrateDown(t *testing.T) {
	db := openTestDB(t)
	testutil.AssertNoError(t, db.MigrateDown())
	version, _, err := db.MigrateVersion()
	testutil.AssertNoError(t, err)
	if version != 1 {
		t.Errorf("version after down = %d, want 1", version)
	}
	testutil.AssertNoError(t, db.MigrateUp())
}

func sampleSession(id string, start time.Time) Session {
	return Session{
		ID:        id,
		StartedAt: start,
		EndedAt:   start.Add(90 * time.Second),
		Stats: monitoring.StatsSnapshot{
			FramesCaptured:     2700,
			FramesDisplaced:    300,
			FramesDecoded:      2390,
			DecodeFailures:     10,
			SnapshotsPublished: 2390,
			SnapshotsDisplaced: 40,
			Renders:            9000,
		},
	}
}

func TestSessions_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	older := sampleSession("a", base)
	newer := sampleSession("b", base.Add(time.Hour))
	newer.Error = "capture: open /dev/video0: no such device"

	testutil.AssertNoError(t, db.RecordSession(ctx, older))
	testutil.AssertNoError(t, db.RecordSession(ctx, newer))

	got, err := db.Sessions(ctx, 10)
	testutil.AssertNoError(t, err)
	if diff := cmp.Diff([]Session{newer, older}, got); diff != "" {
		t.Errorf("Sessions mismatch (-want +got):\n%s", diff)
	}

	got, err = db.Sessions(ctx, 1)
	testutil.AssertNoError(t, err)
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("limit 1 returned %+v", got)
	}
	if d := got[0].Duration(); d != 90*time.Second {
		t.Errorf("Duration() = %v", d)
	}
}

func TestRecordSession_DuplicateID(t *testing.T) {
	db := openTestDB(t)
	s := sampleSession("dup", time.Now())
	testutil.AssertNoError(t, db.RecordSession(context.Background(), s))
	testutil.AssertError(t, db.RecordSession(context.Background(), s))
}

func TestAttachAdminRoutes(t *testing.T) {
	db := openTestDB(t)
	testutil.AssertNoError(t, db.RecordSession(context.Background(), sampleSession("x", time.Now().UTC())))

	mux := http.NewServeMux()
	testutil.AssertNoError(t, db.AttachAdminRoutes(mux))

	rec := testutil.Get(mux, "/debug/sessions")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	var sessions []Session
	if err := json.NewDecoder(rec.Body).Decode(&sessions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "x" {
		t.Errorf("sessions = %+v", sessions)
	}

	rec = testutil.Get(mux, "/debug/")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
}
