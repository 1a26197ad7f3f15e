package appointments

import (
	"context"
	"sync"
	"time"
)

// Repository defines the interface for appointment storage.
// Create returns the stored appointment with its assigned id so callers
// never have to re-read state to build a booking reference.
type Repository interface {
	Create(ctx context.Context, userID, service, when string) (Appointment, error)
	Cancel(ctx context.Context, id int64) (bool, error)
	Reschedule(ctx context.Context, id int64, when string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]Appointment, error)
}

// InMemoryRepository implements Repository with in-memory storage,
// for tests and database-less development.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	appts  []Appointment
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

// Create stores a new pending appointment and returns it with its id.
func (r *InMemoryRepository) Create(ctx context.Context, userID, service, when string) (Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt := Appointment{
		ID:        r.nextID,
		UserID:    userID,
		Service:   service,
		When:      when,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++
	r.appts = append(r.appts, appt)
	return appt, nil
}

// Cancel marks an appointment cancelled. Returns false when no such id exists.
func (r *InMemoryRepository) Cancel(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.appts {
		if r.appts[i].ID == id {
			r.appts[i].Status = StatusCancelled
			return true, nil
		}
	}
	return false, nil
}

// Reschedule updates an appointment's time. Returns false when no such id exists.
func (r *InMemoryRepository) Reschedule(ctx context.Context, id int64, when string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.appts {
		if r.appts[i].ID == id {
			r.appts[i].When = when
			return true, nil
		}
	}
	return false, nil
}

// ListByUser returns a user's appointments in insertion order.
func (r *InMemoryRepository) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Appointment
	for _, appt := range r.appts {
		if appt.UserID == userID {
			out = append(out, appt)
		}
	}
	return out, nil
}
