package booking

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository defines the interface for booking storage
type Repository interface {
	// Create persists a new booking and fills its generated id and
	// audit timestamps.
	Create(ctx context.Context, b *Booking) (*Booking, error)
	// GetByID returns a booking or ErrBookingNotFound.
	GetByID(ctx context.Context, id int64) (*Booking, error)
	// List returns bookings matching the filter, newest id first.
	List(ctx context.Context, filter ListFilter) ([]*Booking, error)
	// UpdateStatus atomically moves a PENDING booking to the given status,
	// refreshing updated_at. It returns ErrBookingNotFound for unknown ids
	// and ErrAlreadyFinalized when the row is no longer PENDING.
	UpdateStatus(ctx context.Context, id int64, status Status, doctorName string) (*Booking, error)
}

// InMemoryRepository is an in-memory Repository used in tests and local
// development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings map[int64]*Booking
	nextID   int64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		bookings: make(map[int64]*Booking),
		nextID:   1,
	}
}

// Create stores a new booking row in memory.
func (r *InMemoryRepository) Create(ctx context.Context, b *Booking) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := *b
	stored.ID = r.nextID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.nextID++
	r.bookings[stored.ID] = &stored

	out := stored
	return &out, nil
}

// GetByID retrieves a booking by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

// List returns matching bookings ordered newest id first.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Booking, error) {
	if filter.None {
		return []*Booking{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if filter.Email != "" && b.Email != filter.Email {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// UpdateStatus applies a transition to a PENDING booking.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int64, status Status, doctorName string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status != StatusPending {
		return nil, ErrAlreadyFinalized
	}

	b.Status = status
	b.DoctorName = doctorName
	b.UpdatedAt = time.Now().UTC()

	out := *b
	return &out, nil
}
