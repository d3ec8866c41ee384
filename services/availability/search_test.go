package availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	availabilityRepo "github.com/EAniwa/legacylancers-sub003/database/repository/availability"
	"github.com/EAniwa/legacylancers-sub003/models"
	"github.com/EAniwa/legacylancers-sub003/utils"
)

func newTestEngine(repo availabilityRepo.AvailabilityRepository, now time.Time) *SlotSearchEngine {
	return &SlotSearchEngine{
		Repo:     repo,
		Expander: &RecurrenceExpander{},
		TZ:       NewSystemTimezoneAdapter(),
		LeadTime: time.Hour,
		Now:      func() time.Time { return now },
	}
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *utils.AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func TestFindAvailableSlotsPartitionsWindow(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-10",
		StartTime:    "09:00",
		EndTime:      "12:00",
		TimeZone:     "UTC",
		MaxBookings:  1,
	})

	engine := newTestEngine(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	candidates, err := engine.FindAvailableSlots(context.Background(), "owner-1", "2026-09-01", "2026-09-30", 60, 0, "")
	if err != nil {
		t.Fatalf("FindAvailableSlots returned error: %v", err)
	}

	want := [][2]string{{"09:00", "10:00"}, {"10:00", "11:00"}, {"11:00", "12:00"}}
	if len(candidates) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(candidates))
	}
	for i, w := range want {
		if candidates[i].StartTime != w[0] || candidates[i].EndTime != w[1] {
			t.Errorf("candidate %d: got %s-%s, want %s-%s",
				i, candidates[i].StartTime, candidates[i].EndTime, w[0], w[1])
		}
	}
}

func TestFindAvailableSlotsBufferSteps(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-10",
		StartTime:    "09:00",
		EndTime:      "12:00",
		TimeZone:     "UTC",
		MaxBookings:  1,
	})

	engine := newTestEngine(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	candidates, err := engine.FindAvailableSlots(context.Background(), "owner-1", "2026-09-01", "2026-09-30", 60, 30, "")
	if err != nil {
		t.Fatalf("FindAvailableSlots returned error: %v", err)
	}

	// With a 30 minute buffer the step is 90 minutes: 09:00 and 10:30 fit,
	// 12:00 would end past the window.
	want := [][2]string{{"09:00", "10:00"}, {"10:30", "11:30"}}
	if len(candidates) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(candidates))
	}
	for i, w := range want {
		if candidates[i].StartTime != w[0] || candidates[i].EndTime != w[1] {
			t.Errorf("candidate %d: got %s-%s, want %s-%s",
				i, candidates[i].StartTime, candidates[i].EndTime, w[0], w[1])
		}
	}
}

func TestFindAvailableSlotsSkipsFullAndInactive(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:         "owner-1",
		ScheduleType:    models.ScheduleOneTime,
		StartDate:       "2026-09-10",
		StartTime:       "09:00",
		EndTime:         "10:00",
		TimeZone:        "UTC",
		MaxBookings:     2,
		CurrentBookings: 2,
	})
	seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-11",
		StartTime:    "09:00",
		EndTime:      "10:00",
		TimeZone:     "UTC",
		MaxBookings:  1,
		Status:       models.SlotStatusInactive,
	})

	engine := newTestEngine(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	candidates, err := engine.FindAvailableSlots(context.Background(), "owner-1", "2026-09-01", "2026-09-30", 60, 0, "")
	if err != nil {
		t.Fatalf("FindAvailableSlots returned error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("full and inactive slots must produce no candidates, got %d", len(candidates))
	}
}

func TestFindAvailableSlotsSortedAcrossZones(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	// 09:00 in New York is 13:00 UTC on this date; 10:00 UTC sorts first.
	seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-10",
		StartTime:    "09:00",
		EndTime:      "10:00",
		TimeZone:     "America/New_York",
		MaxBookings:  1,
	})
	seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-10",
		StartTime:    "10:00",
		EndTime:      "11:00",
		TimeZone:     "UTC",
		MaxBookings:  1,
	})

	engine := newTestEngine(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	candidates, err := engine.FindAvailableSlots(context.Background(), "owner-1", "2026-09-01", "2026-09-30", 60, 0, "")
	if err != nil {
		t.Fatalf("FindAvailableSlots returned error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if !candidates[0].Start.Before(candidates[1].Start) {
		t.Errorf("candidates not ordered by absolute start: %v then %v", candidates[0].Start, candidates[1].Start)
	}
	if candidates[0].StartTime != "10:00" || candidates[0].Date != "2026-09-10" {
		t.Errorf("expected the UTC slot first, got %s %s %s", candidates[0].Date, candidates[0].StartTime, candidates[0].EndTime)
	}
}

func TestGetNextAvailableSlotDistinguishesEmptyOwner(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	engine := newTestEngine(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

	_, err := engine.GetNextAvailableSlot(context.Background(), "owner-1", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 60, "")
	if code := appErrCode(t, err); code != CodeNoAvailability {
		t.Fatalf("expected %s for an owner with no slots, got %s", CodeNoAvailability, code)
	}

	// An owner with slots but none matching gets the other code.
	seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-10",
		StartTime:    "09:00",
		EndTime:      "10:00",
		TimeZone:     "UTC",
		MaxBookings:  1,
	})
	_, err = engine.GetNextAvailableSlot(context.Background(), "owner-1", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 240, "")
	if code := appErrCode(t, err); code != CodeNoSlotsAvailable {
		t.Fatalf("expected %s when no candidate fits, got %s", CodeNoSlotsAvailable, code)
	}
}

func TestGetNextAvailableSlotReturnsEarliest(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-15",
		StartTime:    "09:00",
		EndTime:      "11:00",
		TimeZone:     "UTC",
		MaxBookings:  1,
	})
	seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-10",
		StartTime:    "14:00",
		EndTime:      "16:00",
		TimeZone:     "UTC",
		MaxBookings:  1,
	})

	engine := newTestEngine(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	next, err := engine.GetNextAvailableSlot(context.Background(), "owner-1", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 60, "")
	if err != nil {
		t.Fatalf("GetNextAvailableSlot returned error: %v", err)
	}
	if next.Date != "2026-09-10" || next.StartTime != "14:00" {
		t.Fatalf("expected the Sep 10 14:00 candidate, got %s %s", next.Date, next.StartTime)
	}
}

func TestGetNextAvailableSlotLocalDateBehindUTC(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	// 21:30 New York on Sep 1 is 01:30 UTC on Sep 2. A query at 01:00 UTC
	// on Sep 2 must still see the slot on the owner's previous local date.
	seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-01",
		StartTime:    "21:30",
		EndTime:      "23:00",
		TimeZone:     "America/New_York",
		MaxBookings:  1,
	})

	engine := newTestEngine(repo, time.Date(2026, 9, 2, 1, 0, 0, 0, time.UTC))
	next, err := engine.GetNextAvailableSlot(context.Background(), "owner-1", time.Date(2026, 9, 2, 1, 0, 0, 0, time.UTC), 60, "")
	if err != nil {
		t.Fatalf("GetNextAvailableSlot returned error: %v", err)
	}
	if next.Date != "2026-09-01" || next.StartTime != "21:30" {
		t.Fatalf("expected the Sep 1 21:30 local candidate, got %s %s", next.Date, next.StartTime)
	}
	if want := time.Date(2026, 9, 2, 1, 30, 0, 0, time.UTC); !next.Start.Equal(want) {
		t.Fatalf("expected absolute start %v, got %v", want, next.Start)
	}
}

func TestGetNextAvailableSlotHonorsWindowTail(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	// The only candidate starts twelve hours past the 30 day horizon.
	seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-10-01",
		StartTime:    "12:00",
		EndTime:      "13:00",
		TimeZone:     "UTC",
		MaxBookings:  1,
	})

	engine := newTestEngine(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	_, err := engine.GetNextAvailableSlot(context.Background(), "owner-1", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 60, "")
	if code := appErrCode(t, err); code != CodeNoSlotsAvailable {
		t.Fatalf("expected %s past the search horizon, got %s", CodeNoSlotsAvailable, code)
	}
}

func TestBookTimeSlotReservesCapacity(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	slot := seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-10",
		StartTime:    "09:00",
		EndTime:      "12:00",
		TimeZone:     "UTC",
		MaxBookings:  2,
	})

	engine := newTestEngine(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	receipt, err := engine.BookTimeSlot(context.Background(), models.BookSlotCommand{
		SlotID: slot.ID,
		Start:  "2026-09-10T09:00:00Z",
		End:    "2026-09-10T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("BookTimeSlot returned error: %v", err)
	}
	if receipt.Booked != 1 || receipt.Capacity != 2 {
		t.Errorf("receipt counters wrong: booked=%d capacity=%d", receipt.Booked, receipt.Capacity)
	}

	stored, err := repo.GetByID(context.Background(), slot.ID)
	if err != nil {
		t.Fatalf("reloading slot: %v", err)
	}
	if stored.CurrentBookings != 1 {
		t.Errorf("expected currentBookings 1, got %d", stored.CurrentBookings)
	}
	if stored.Version != slot.Version+1 {
		t.Errorf("expected version bump from %d, got %d", slot.Version, stored.Version)
	}
}

func TestBookTimeSlotLeadTime(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	slot := seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-10",
		StartTime:    "09:00",
		EndTime:      "12:00",
		TimeZone:     "UTC",
		MaxBookings:  1,
	})

	// Now is 08:30 on the slot day; a 09:00 start violates the one hour lead.
	engine := newTestEngine(repo, time.Date(2026, 9, 10, 8, 30, 0, 0, time.UTC))
	_, err := engine.BookTimeSlot(context.Background(), models.BookSlotCommand{
		SlotID: slot.ID,
		Start:  "2026-09-10T09:00:00Z",
		End:    "2026-09-10T10:00:00Z",
	})
	if code := appErrCode(t, err); code != CodeNotBookable {
		t.Fatalf("expected %s inside the lead time, got %s", CodeNotBookable, code)
	}

	// Exactly at the lead-time boundary the booking is allowed.
	engine.Now = func() time.Time { return time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC) }
	if _, err := engine.BookTimeSlot(context.Background(), models.BookSlotCommand{
		SlotID: slot.ID,
		Start:  "2026-09-10T09:00:00Z",
		End:    "2026-09-10T10:00:00Z",
	}); err != nil {
		t.Fatalf("boundary booking rejected: %v", err)
	}
}

func TestBookTimeSlotCapacityExhausted(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	slot := seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:         "owner-1",
		ScheduleType:    models.ScheduleOneTime,
		StartDate:       "2026-09-10",
		StartTime:       "09:00",
		EndTime:         "12:00",
		TimeZone:        "UTC",
		MaxBookings:     1,
		CurrentBookings: 1,
	})

	engine := newTestEngine(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	_, err := engine.BookTimeSlot(context.Background(), models.BookSlotCommand{
		SlotID: slot.ID,
		Start:  "2026-09-10T09:00:00Z",
		End:    "2026-09-10T10:00:00Z",
	})
	if code := appErrCode(t, err); code != CodeFullyBooked {
		t.Fatalf("expected %s at capacity, got %s", CodeFullyBooked, code)
	}
}

func TestBookTimeSlotConcurrentNeverOverbooks(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	slot := seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-10",
		StartTime:    "09:00",
		EndTime:      "12:00",
		TimeZone:     "UTC",
		MaxBookings:  3,
	})

	engine := newTestEngine(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	cmd := models.BookSlotCommand{
		SlotID: slot.ID,
		Start:  "2026-09-10T09:00:00Z",
		End:    "2026-09-10T10:00:00Z",
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.BookTimeSlot(context.Background(), cmd); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stored, err := repo.GetByID(context.Background(), slot.ID)
	if err != nil {
		t.Fatalf("reloading slot: %v", err)
	}
	if stored.CurrentBookings > stored.MaxBookings {
		t.Fatalf("capacity overrun: %d/%d", stored.CurrentBookings, stored.MaxBookings)
	}
	if succeeded != stored.CurrentBookings {
		t.Fatalf("receipts (%d) disagree with stored counter (%d)", succeeded, stored.CurrentBookings)
	}
}

func TestReleaseTimeSlotReturnsCapacity(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	slot := seedSlot(t, repo, models.AvailabilitySlot{
		OwnerID:      "owner-1",
		ScheduleType: models.ScheduleOneTime,
		StartDate:    "2026-09-10",
		StartTime:    "09:00",
		EndTime:      "12:00",
		TimeZone:     "UTC",
		MaxBookings:  2,
	})

	engine := newTestEngine(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	if _, err := engine.BookTimeSlot(context.Background(), models.BookSlotCommand{
		SlotID: slot.ID,
		Start:  "2026-09-10T09:00:00Z",
		End:    "2026-09-10T10:00:00Z",
	}); err != nil {
		t.Fatalf("BookTimeSlot returned error: %v", err)
	}

	released, err := engine.ReleaseTimeSlot(context.Background(), slot.ID)
	if err != nil {
		t.Fatalf("ReleaseTimeSlot returned error: %v", err)
	}
	if released.CurrentBookings != 0 {
		t.Errorf("expected counter back at 0, got %d", released.CurrentBookings)
	}

	// Releasing an unreserved slot leaves the counter at its floor.
	again, err := engine.ReleaseTimeSlot(context.Background(), slot.ID)
	if err != nil {
		t.Fatalf("ReleaseTimeSlot at floor returned error: %v", err)
	}
	if again.CurrentBookings != 0 {
		t.Errorf("floor release moved the counter to %d", again.CurrentBookings)
	}

	if _, err := engine.ReleaseTimeSlot(context.Background(), "missing"); err == nil {
		t.Fatal("expected an error for an unknown slot")
	} else if code := appErrCode(t, err); code != CodeSlotNotFound {
		t.Fatalf("expected %s, got %s", CodeSlotNotFound, code)
	}
}

func TestBookTimeSlotRejectsMalformedWindow(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	engine := newTestEngine(repo, time.Now())

	_, err := engine.BookTimeSlot(context.Background(), models.BookSlotCommand{
		SlotID: "whatever",
		Start:  "2026-09-10T10:00:00Z",
		End:    "2026-09-10T09:00:00Z",
	})
	if code := appErrCode(t, err); code != CodeInvalidTime {
		t.Fatalf("expected %s for an inverted window, got %s", CodeInvalidTime, code)
	}
}

func TestBookTimeSlotUnknownSlot(t *testing.T) {
	repo := availabilityRepo.NewMemoryAvailabilityRepo()
	engine := newTestEngine(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

	_, err := engine.BookTimeSlot(context.Background(), models.BookSlotCommand{
		SlotID: "missing",
		Start:  "2026-09-10T09:00:00Z",
		End:    "2026-09-10T10:00:00Z",
	})
	if code := appErrCode(t, err); code != CodeSlotNotFound {
		t.Fatalf("expected %s, got %s", CodeSlotNotFound, code)
	}
}
