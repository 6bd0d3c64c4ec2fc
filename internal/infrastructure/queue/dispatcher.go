package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/fleetflow/fleet-api/internal/api/metrics"
	"github.com/fleetflow/fleet-api/internal/core/domain"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes fleet events to a fixed set of workers using consistent
// hashing on the entity id, so events for the same vehicle or trip are
// persisted in the order they were enqueued.
type Dispatcher struct {
	workers []chan domain.FleetEvent
	service ports.EventService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.FleetEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.FleetEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its entity.
// Recording is best-effort: when the worker's buffer is full the event is
// dropped with a warning instead of blocking the request.
func (d *Dispatcher) Enqueue(event domain.FleetEvent) {
	ch := d.workers[d.shardIndex(event.EntityID)]
	select {
	case ch <- event:
	default:
		d.log.Warn().
			Str("entity_id", event.EntityID).
			Str("action", string(event.Action)).
			Msg("event queue full, dropping event")
	}
}

// shardIndex maps an entity id deterministically to a worker index.
func (d *Dispatcher) shardIndex(entityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.FleetEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("entity_id", event.EntityID).
					Int("worker_id", id).
					Msg("event persistence failed")
				continue
			}
			metrics.EventsRecordedTotal.Inc()
		}
	}
}
