package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/api/metrics"
	"github.com/fleetflow/fleet-api/internal/core/domain"
)

type recordingEventService struct {
	mu     sync.Mutex
	events []domain.FleetEvent
	done   chan struct{}
	want   int
}

func newRecordingEventService(want int) *recordingEventService {
	return &recordingEventService{done: make(chan struct{}), want: want}
}

func (s *recordingEventService) Process(_ context.Context, e domain.FleetEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	if len(s.events) == s.want {
		close(s.done)
	}
	return nil
}

func (s *recordingEventService) ListRecent(_ context.Context, _ int) ([]*domain.FleetEvent, error) {
	return nil, nil
}

func TestDispatcher_DeliversAllEvents(t *testing.T) {
	svc := newRecordingEventService(8)
	d := NewDispatcher(4, svc, zerolog.Nop())

	before := testutil.ToFloat64(metrics.EventsRecordedTotal)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 8; i++ {
		d.Enqueue(domain.FleetEvent{
			EntityType: "trip",
			EntityID:   "trp-" + string(rune('a'+i)),
			Action:     domain.EventTripCreated,
		})
	}

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for events to be processed")
	}

	deadline := time.Now().Add(2 * time.Second)
	for testutil.ToFloat64(metrics.EventsRecordedTotal)-before < 8 {
		if time.Now().After(deadline) {
			t.Fatalf("events_recorded_total rose by %v, want 8",
				testutil.ToFloat64(metrics.EventsRecordedTotal)-before)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDispatcher_SameEntitySameShard(t *testing.T) {
	d := NewDispatcher(4, newRecordingEventService(0), zerolog.Nop())

	first := d.shardIndex("veh-123")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("veh-123"); got != first {
			t.Fatalf("shard index changed between calls: %d vs %d", got, first)
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	// One worker that is never started, so the buffer fills up and further
	// enqueues must drop instead of blocking.
	d := NewDispatcher(1, newRecordingEventService(0), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Enqueue(domain.FleetEvent{EntityID: "veh-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full buffer")
	}
}
