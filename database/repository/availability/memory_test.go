// File: database/repository/availability/memory_test.go
package availabilityRepo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/EAniwa/legacylancers-sub003/models"
)

func newSlot(owner string) *models.AvailabilitySlot {
	return &models.AvailabilitySlot{
		OwnerID:      owner,
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-10",
		StartTime:    "09:00",
		EndTime:      "12:00",
		TimeZone:     "UTC",
		MaxBookings:  2,
		Status:       models.SlotStatusActive,
	}
}

func TestMemoryRepoCreateAssignsIdentity(t *testing.T) {
	repo := NewMemoryAvailabilityRepo()
	slot := newSlot("owner-1")

	if err := repo.Create(context.Background(), slot); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if slot.ID == "" {
		t.Error("expected a generated ID")
	}
	if slot.Version != 1 {
		t.Errorf("expected version 1, got %d", slot.Version)
	}

	loaded, err := repo.GetByID(context.Background(), slot.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if loaded.OwnerID != "owner-1" {
		t.Errorf("round trip lost owner: %q", loaded.OwnerID)
	}
}

func TestMemoryRepoUpdateCAS(t *testing.T) {
	repo := NewMemoryAvailabilityRepo()
	slot := newSlot("owner-1")
	if err := repo.Create(context.Background(), slot); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	fresh := *slot
	stale := *slot

	fresh.HourlyRate = 90
	if err := repo.Update(context.Background(), &fresh); err != nil {
		t.Fatalf("fresh update failed: %v", err)
	}
	if fresh.Version != 2 {
		t.Errorf("expected version 2 after update, got %d", fresh.Version)
	}

	stale.HourlyRate = 70
	if err := repo.Update(context.Background(), &stale); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict for the stale write, got %v", err)
	}

	loaded, _ := repo.GetByID(context.Background(), slot.ID)
	if loaded.HourlyRate != 90 {
		t.Errorf("stale write leaked through: rate %v", loaded.HourlyRate)
	}
}

func TestMemoryRepoIncrementBounds(t *testing.T) {
	repo := NewMemoryAvailabilityRepo()
	slot := newSlot("owner-1")
	if err := repo.Create(context.Background(), slot); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := repo.IncrementBookings(context.Background(), slot.ID, 1)
	if err != nil {
		t.Fatalf("first increment failed: %v", err)
	}
	if _, err := repo.IncrementBookings(context.Background(), slot.ID, 1); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict on the stale version, got %v", err)
	}
	if _, err := repo.IncrementBookings(context.Background(), slot.ID, updated.Version); err != nil {
		t.Fatalf("second increment failed: %v", err)
	}
	if _, err := repo.IncrementBookings(context.Background(), slot.ID, updated.Version+1); !errors.Is(err, ErrCapacityFull) {
		t.Fatalf("expected ErrCapacityFull at the cap, got %v", err)
	}
}

func TestMemoryRepoDecrementFloor(t *testing.T) {
	repo := NewMemoryAvailabilityRepo()
	slot := newSlot("owner-1")
	if err := repo.Create(context.Background(), slot); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Decrement below zero is a no-op, not an error.
	updated, err := repo.DecrementBookings(context.Background(), slot.ID)
	if err != nil {
		t.Fatalf("DecrementBookings returned error: %v", err)
	}
	if updated.CurrentBookings != 0 {
		t.Errorf("counter went negative: %d", updated.CurrentBookings)
	}

	if _, err := repo.IncrementBookings(context.Background(), slot.ID, 1); err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	updated, err = repo.DecrementBookings(context.Background(), slot.ID)
	if err != nil {
		t.Fatalf("DecrementBookings returned error: %v", err)
	}
	if updated.CurrentBookings != 0 {
		t.Errorf("expected counter back at 0, got %d", updated.CurrentBookings)
	}
}

func TestMemoryRepoConcurrentIncrements(t *testing.T) {
	repo := NewMemoryAvailabilityRepo()
	slot := newSlot("owner-1")
	slot.MaxBookings = 5
	if err := repo.Create(context.Background(), slot); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			current, err := repo.GetByID(context.Background(), slot.ID)
			if err != nil {
				return
			}
			repo.IncrementBookings(context.Background(), slot.ID, current.Version)
		}()
	}
	wg.Wait()

	loaded, err := repo.GetByID(context.Background(), slot.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if loaded.CurrentBookings > loaded.MaxBookings {
		t.Fatalf("capacity overrun: %d/%d", loaded.CurrentBookings, loaded.MaxBookings)
	}
}

func TestMemoryRepoListDateRangeAdmitsUndated(t *testing.T) {
	repo := NewMemoryAvailabilityRepo()

	early := newSlot("owner-1")
	early.StartDate = "2026-08-01"
	inRange := newSlot("owner-1")
	inRange.StartDate = "2026-09-10"
	undated := newSlot("owner-1")
	undated.ScheduleType = models.ScheduleRecurring
	undated.StartDate = ""
	undated.Recurrence = &models.RecurrenceRule{Weekdays: []time.Weekday{time.Monday}}
	for _, slot := range []*models.AvailabilitySlot{early, inRange, undated} {
		if err := repo.Create(context.Background(), slot); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	slots, total, err := repo.List(context.Background(), models.AvailabilityListFilter{
		OwnerID:   "owner-1",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
		Page:      1,
		PageSize:  10,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected the dated in-range and the undated slot, got %d", total)
	}
	for _, slot := range slots {
		if slot.StartDate == "2026-08-01" {
			t.Error("slot before the range lower bound leaked into the page")
		}
	}
}

func TestMemoryRepoListFilterAndPaging(t *testing.T) {
	repo := NewMemoryAvailabilityRepo()
	dates := []string{"2026-09-12", "2026-09-10", "2026-09-11"}
	for _, date := range dates {
		slot := newSlot("owner-1")
		slot.StartDate = date
		slot.Tags = []string{"Finance"}
		if err := repo.Create(context.Background(), slot); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}
	other := newSlot("owner-2")
	if err := repo.Create(context.Background(), other); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	slots, total, err := repo.List(context.Background(), models.AvailabilityListFilter{
		OwnerID:  "owner-1",
		Tags:     []string{"finance"}, // tag match is case-insensitive
		Page:     1,
		PageSize: 2,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(slots) != 2 {
		t.Fatalf("expected page of 2, got %d", len(slots))
	}
	if slots[0].StartDate != "2026-09-10" || slots[1].StartDate != "2026-09-11" {
		t.Errorf("default sort should be by start date: %s, %s", slots[0].StartDate, slots[1].StartDate)
	}
}
