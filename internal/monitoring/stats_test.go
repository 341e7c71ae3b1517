package monitoring

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPipelineStatsSnapshotAndReset(t *testing.T) {
	var s PipelineStats

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.FramesCaptured.Add(1)
				s.Renders.Add(2)
			}
		}()
	}
	wg.Wait()
	s.DecodeFailures.Add(3)

	want := StatsSnapshot{FramesCaptured: 800, Renders: 1600, DecodeFailures: 3}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	s.Reset()
	if diff := cmp.Diff(StatsSnapshot{}, s.Snapshot()); diff != "" {
		t.Errorf("after reset (-want +got):\n%s", diff)
	}
}
