package notify

import (
	"context"

	"github.com/lanangwisana/sentracare-be-booking/internal/booking"
	"github.com/lanangwisana/sentracare-be-booking/pkg/logging"
)

type job struct {
	booking     booking.Booking
	doctorName  string
	doctorEmail string
}

// Dispatcher hands registration payloads to a single background worker so
// the request handler never waits on the downstream service. The booking
// row is already committed before a job is enqueued, so cancelling the
// worker on shutdown cannot corrupt booking state.
type Dispatcher struct {
	client *Client
	jobs   chan job
	logger *logging.Logger
}

// NewDispatcher wraps a forwarding client with a bounded queue.
func NewDispatcher(client *Client, queueSize int, logger *logging.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		client: client,
		jobs:   make(chan job, queueSize),
		logger: logger,
	}
}

// Start runs the delivery loop until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-d.jobs:
			if err := d.client.Forward(ctx, &j.booking, j.doctorName, j.doctorEmail); err != nil {
				d.logger.Error("background forward failed", "error", err, "booking_id", j.booking.ID)
			}
		}
	}
}

// Forward enqueues a delivery without blocking. When the queue is
// saturated the payload is dropped with a log line; delivery is
// best-effort by contract.
func (d *Dispatcher) Forward(ctx context.Context, b *booking.Booking, doctorName, doctorEmail string) error {
	select {
	case d.jobs <- job{booking: *b, doctorName: doctorName, doctorEmail: doctorEmail}:
	default:
		d.logger.Warn("forward queue full, dropping registration", "booking_id", b.ID)
	}
	return nil
}
