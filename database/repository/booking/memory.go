// File: database/repository/booking/memory.go
package bookingRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EAniwa/legacylancers-sub003/models"
)

// memoryBookingRepo is an in-process BookingRepository with the same
// version-stamp discipline as the Mongo implementation.
type memoryBookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
	history  map[string][]models.BookingHistoryEntry
}

// NewMemoryBookingRepo constructs an empty in-memory repository.
func NewMemoryBookingRepo() BookingRepository {
	return &memoryBookingRepo{
		bookings: make(map[string]models.Booking),
		history:  make(map[string][]models.BookingHistoryEntry),
	}
}

func (r *memoryBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	r.bookings[booking.ID] = *booking
	return nil
}

func (r *memoryBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := booking
	return &copied, nil
}

func (r *memoryBookingRepo) Update(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[booking.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != booking.Version {
		return ErrVersionConflict
	}
	booking.Version++
	booking.UpdatedAt = time.Now().UTC()
	booking.CreatedAt = stored.CreatedAt
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *memoryBookingRepo) List(_ context.Context, filter models.BookingListFilter) ([]models.Booking, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Booking
	for _, b := range r.bookings {
		if filter.ClientID != "" && b.ClientID != filter.ClientID {
			continue
		}
		if filter.RetireeID != "" && b.RetireeID != filter.RetireeID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.Engagement != "" && b.EngagementType != filter.Engagement {
			continue
		}
		matched = append(matched, b)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memoryBookingRepo) AppendHistory(_ context.Context, entry *models.BookingHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	r.history[entry.BookingID] = append(r.history[entry.BookingID], *entry)
	return nil
}

func (r *memoryBookingRepo) GetHistory(_ context.Context, bookingID string, page, pageSize int) ([]models.BookingHistoryEntry, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.history[bookingID]
	total := int64(len(entries))

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(entries) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}

	out := make([]models.BookingHistoryEntry, end-start)
	copy(out, entries[start:end])
	return out, total, nil
}

func (r *memoryBookingRepo) StatsForActor(_ context.Context, actorID string) (*models.BookingDashboardStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &models.BookingDashboardStats{ByStatus: make(map[string]int)}
	var acceptedSum float64
	var acceptedCount int
	for _, b := range r.bookings {
		if b.ClientID != actorID && b.RetireeID != actorID {
			continue
		}
		stats.Total++
		stats.ByStatus[b.Status]++
		if b.Status == models.BookingStatusAccepted {
			acceptedSum += b.AgreedRate
			acceptedCount++
		}
	}
	if acceptedCount > 0 {
		stats.AverageAgreedRate = acceptedSum / float64(acceptedCount)
	}
	return stats, nil
}
