package monitoring

import "sync/atomic"

// PipelineStats counts what happened to frames and snapshots during one
// power cycle. All fields are safe for concurrent use.
type PipelineStats struct {
	FramesCaptured     atomic.Uint64
	FramesDisplaced    atomic.Uint64
	FramesDecoded      atomic.Uint64
	DecodeFailures     atomic.Uint64
	SnapshotsPublished atomic.Uint64
	SnapshotsDisplaced atomic.Uint64
	Renders            atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of PipelineStats.
type StatsSnapshot struct {
	FramesCaptured     uint64 `json:"frames_captured"`
	FramesDisplaced    uint64 `json:"frames_displaced"`
	FramesDecoded      uint64 `json:"frames_decoded"`
	DecodeFailures     uint64 `json:"decode_failures"`
	SnapshotsPublished uint64 `json:"snapshots_published"`
	SnapshotsDisplaced uint64 `json:"snapshots_displaced"`
	Renders            uint64 `json:"renders"`
}

// Snapshot copies the current counter values.
func (s *PipelineStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		FramesCaptured:     s.FramesCaptured.Load(),
		FramesDisplaced:    s.FramesDisplaced.Load(),
		FramesDecoded:      s.FramesDecoded.Load(),
		DecodeFailures:     s.DecodeFailures.Load(),
		SnapshotsPublished: s.SnapshotsPublished.Load(),
		SnapshotsDisplaced: s.SnapshotsDisplaced.Load(),
		Renders:            s.Renders.Load(),
	}
}

// Reset zeroes every counter. Called at the start of each power cycle.
func (s *PipelineStats) Reset() {
	s.FramesCaptured.Store(0)
	s.FramesDisplaced.Store(0)
	s.FramesDecoded.Store(0)
	s.DecodeFailures.Store(0)
	s.SnapshotsPublished.Store(0)
	s.SnapshotsDisplaced.Store(0)
	s.Renders.Store(0)
}
