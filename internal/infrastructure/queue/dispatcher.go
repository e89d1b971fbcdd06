// Package queue decouples report submission from notification delivery so a
// slow email provider never blocks the submitting client.
package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/chismoso/checkin-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 64
)

// Dispatcher is an async ports.Notifier: Send enqueues and returns
// immediately, a fixed set of workers performs the actual delivery.
// Notifications for the same recipient land on the same worker, preserving
// per-recipient ordering.
type Dispatcher struct {
	workers  []chan ports.Notification
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher delivering through notifier with
// numWorkers workers. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.Notification, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// queued notifications are dropped at shutdown.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Send enqueues a notification. The call is non-blocking up to
// channelBuffer capacity and never reports delivery failures; those are
// logged by the worker.
func (d *Dispatcher) Send(_ context.Context, n ports.Notification) error {
	d.workers[d.shardIndex(n.To)] <- n
	return nil
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := d.notifier.Send(ctx, n); err != nil {
				d.log.Error().Err(err).
					Str("to", n.To).
					Str("subject", n.Subject).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
		}
	}
}
