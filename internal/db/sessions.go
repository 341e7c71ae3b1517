package db

import (
	"context"
	"fmt"
	"time"

	"github.com/banshee-data/backlight/internal/monitoring"
)

// Session is one power cycle: from power on to the last stage stopping.
type Session struct {
	ID        string                   `json:"session_id"`
	StartedAt time.Time                `json:"started_at"`
	EndedAt   time.Time                `json:"ended_at"`
	Stats     monitoring.StatsSnapshot `json:"stats"`
	Error     string                   `json:"error,omitempty"`
}

// Duration is EndedAt - StartedAt.
func (s Session) Duration() time.Duration { return s.EndedAt.Sub(s.StartedAt) }

// RecordSession inserts s.
func (db *DB) RecordSession(ctx context.Context, s Session) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO power_sessions (
			session_id, started_at, ended_at, frames_captured, frames_displaced,
			frames_decoded, decode_failures, snapshots_published,
			snapshots_displaced, renders, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.StartedAt.UTC().Format(time.RFC3339Nano), s.EndedAt.UTC().Format(time.RFC3339Nano),
		s.Stats.FramesCaptured, s.Stats.FramesDisplaced, s.Stats.FramesDecoded,
		s.Stats.DecodeFailures, s.Stats.SnapshotsPublished, s.Stats.SnapshotsDisplaced,
		s.Stats.Renders, s.Error,
	)
	if err != nil {
		return fmt.Errorf("record session %s: %w", s.ID, err)
	}
	return nil
}

// Sessions returns up to limit sessions, newest first.
func (db *DB) Sessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx,
		`SELECT session_id, started_at, ended_at, frames_captured, frames_displaced,
			frames_decoded, decode_failures, snapshots_published,
			snapshots_displaced, renders, error
		FROM power_sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		var started, ended string
		if err := rows.Scan(&s.ID, &started, &ended,
			&s.Stats.FramesCaptured, &s.Stats.FramesDisplaced, &s.Stats.FramesDecoded,
			&s.Stats.DecodeFailures, &s.Stats.SnapshotsPublished, &s.Stats.SnapshotsDisplaced,
			&s.Stats.Renders, &s.Error); err != nil {
			return nil, err
		}
		if s.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("session %s: parse started_at: %w", s.ID, err)
		}
		if s.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
			return nil, fmt.Errorf("session %s: parse ended_at: %w", s.ID, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
