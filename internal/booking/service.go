package booking

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/lanangwisana/sentracare-be-booking/internal/observability/metrics"
	"github.com/lanangwisana/sentracare-be-booking/pkg/logging"
)

var bookingTracer = otel.Tracer("sentracare.internal.booking")

// Forwarder pushes a patient-registration payload downstream after a
// booking is confirmed. Implementations must be best-effort: a returned
// error is logged, never propagated to the transition caller.
type Forwarder interface {
	Forward(ctx context.Context, b *Booking, doctorName, doctorEmail string) error
}

// Service implements booking creation, listing and the status transition
// engine on top of a Repository.
type Service struct {
	repo      Repository
	forwarder Forwarder
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
}

// NewService constructs a booking service. The forwarder and metrics are
// optional.
func NewService(repo Repository, forwarder Forwarder, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("booking: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:      repo,
		forwarder: forwarder,
		metrics:   m,
		logger:    logger,
	}
}

// Create validates the request and persists a new PENDING booking. The row
// email always comes from the caller identity, never the request body.
func (s *Service) Create(ctx context.Context, req *CreateBookingRequest, caller *Caller) (*Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.create")
	defer span.End()

	if caller == nil {
		return nil, ErrUnauthorized
	}
	if !caller.Can(CapCreate) {
		return nil, ErrForbidden
	}

	req.Email = caller.Email
	b, err := req.Validate()
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("sentracare.booking_id", created.ID))
	s.metrics.ObserveCreated()
	s.logger.Info("booking created", "booking_id", created.ID, "email", created.Email, "service", created.ServiceCategory)
	return created, nil
}

// List returns the bookings visible to the caller, newest id first. An
// absent caller yields an empty result, never an error.
func (s *Service) List(ctx context.Context, caller *Caller, statusFilter string) ([]*Booking, error) {
	var status Status
	if statusFilter != "" {
		parsed, ok := ParseStatus(statusFilter)
		if !ok {
			return nil, ErrInvalidStatus
		}
		status = parsed
	}
	return s.repo.List(ctx, FilterFor(caller, status))
}

// Transition moves a PENDING booking to CONFIRMED or CANCELLED. On
// confirmation the registration payload is forwarded after the row update
// is durably committed; forwarding failure never reverts the transition.
func (s *Service) Transition(ctx context.Context, caller *Caller, id int64, req *TransitionRequest) (*Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.transition")
	defer span.End()
	span.SetAttributes(attribute.Int64("sentracare.booking_id", id))

	if caller == nil {
		return nil, ErrUnauthorized
	}
	if !caller.Can(CapTransition) {
		return nil, ErrForbidden
	}

	target, ok := ParseStatus(req.Status)
	if !ok || target == StatusPending {
		return nil, ErrInvalidStatus
	}
	if target == StatusConfirmed && req.DoctorName == "" {
		return nil, ErrMissingDoctorName
	}

	doctorName := ""
	if target == StatusConfirmed {
		doctorName = req.DoctorName
	}

	updated, err := s.repo.UpdateStatus(ctx, id, target, doctorName)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveTransition(string(target))
	s.logger.Info("booking transitioned", "booking_id", id, "status", target)

	if target == StatusConfirmed && s.forwarder != nil {
		if err := s.forwarder.Forward(ctx, updated, req.DoctorName, req.DoctorEmail); err != nil {
			// The confirmation is already committed; delivery is best-effort.
			s.logger.Error("patient registration forward failed", "error", err, "booking_id", id)
		}
	}

	return updated, nil
}
