// File: database/repository/availability/memory.go
package availabilityRepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EAniwa/legacylancers-sub003/models"
)

// memoryAvailabilityRepo is an in-process AvailabilityRepository with the
// same version-stamp discipline as the Mongo implementation. Used in tests
// and development mode.
type memoryAvailabilityRepo struct {
	mu      sync.RWMutex
	slots   map[string]models.AvailabilitySlot
	byOwner map[string][]string
}

// NewMemoryAvailabilityRepo constructs an empty in-memory repository.
func NewMemoryAvailabilityRepo() AvailabilityRepository {
	return &memoryAvailabilityRepo{
		slots:   make(map[string]models.AvailabilitySlot),
		byOwner: make(map[string][]string),
	}
}

func (r *memoryAvailabilityRepo) Create(_ context.Context, slot *models.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	slot.Version = 1

	r.slots[slot.ID] = *slot
	r.byOwner[slot.OwnerID] = append(r.byOwner[slot.OwnerID], slot.ID)
	return nil
}

func (r *memoryAvailabilityRepo) GetByID(_ context.Context, id string) (*models.AvailabilitySlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := slot
	return &copied, nil
}

func (r *memoryAvailabilityRepo) Update(_ context.Context, slot *models.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.slots[slot.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != slot.Version {
		return ErrVersionConflict
	}
	slot.Version++
	slot.UpdatedAt = time.Now().UTC()
	slot.CreatedAt = stored.CreatedAt
	r.slots[slot.ID] = *slot
	return nil
}

func (r *memoryAvailabilityRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.slots, id)

	ids := r.byOwner[slot.OwnerID]
	for i, sid := range ids {
		if sid == id {
			r.byOwner[slot.OwnerID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryAvailabilityRepo) ListByOwner(_ context.Context, ownerID string) ([]models.AvailabilitySlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byOwner[ownerID]
	slots := make([]models.AvailabilitySlot, 0, len(ids))
	for _, id := range ids {
		if slot, ok := r.slots[id]; ok {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func matchesFilter(slot models.AvailabilitySlot, filter models.AvailabilityListFilter) bool {
	if filter.OwnerID != "" && slot.OwnerID != filter.OwnerID {
		return false
	}
	if filter.Category != "" && slot.Category != filter.Category {
		return false
	}
	if filter.Status != "" && slot.Status != filter.Status {
		return false
	}
	if filter.StartDate != "" && slot.StartDate != "" && slot.StartDate < filter.StartDate {
		return false
	}
	if filter.EndDate != "" && slot.EndDate != "" && slot.EndDate > filter.EndDate {
		return false
	}
	for _, want := range filter.Tags {
		found := false
		for _, tag := range slot.Tags {
			if strings.EqualFold(tag, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *memoryAvailabilityRepo) List(_ context.Context, filter models.AvailabilityListFilter) ([]models.AvailabilitySlot, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.AvailabilitySlot
	for _, slot := range r.slots {
		if matchesFilter(slot, filter) {
			matched = append(matched, slot)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch filter.SortBy {
		case "createdAt":
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		case "hourlyRate":
			less = matched[i].HourlyRate < matched[j].HourlyRate
		default:
			if matched[i].StartDate != matched[j].StartDate {
				less = matched[i].StartDate < matched[j].StartDate
			} else {
				less = matched[i].StartTime < matched[j].StartTime
			}
		}
		if filter.SortDesc {
			return !less
		}
		return less
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

func (r *memoryAvailabilityRepo) IncrementBookings(_ context.Context, id string, version int) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	if slot.CurrentBookings >= slot.MaxBookings {
		return nil, ErrCapacityFull
	}
	if slot.Version != version {
		return nil, ErrVersionConflict
	}
	slot.CurrentBookings++
	slot.Version++
	slot.UpdatedAt = time.Now().UTC()
	r.slots[id] = slot

	copied := slot
	return &copied, nil
}

func (r *memoryAvailabilityRepo) DecrementBookings(_ context.Context, id string) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	if slot.CurrentBookings > 0 {
		slot.CurrentBookings--
		slot.Version++
		slot.UpdatedAt = time.Now().UTC()
		r.slots[id] = slot
	}
	copied := slot
	return &copied, nil
}
