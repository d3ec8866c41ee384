package availability

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	availabilityRepo "github.com/EAniwa/legacylancers-sub003/database/repository/availability"
	"github.com/EAniwa/legacylancers-sub003/models"
	"github.com/EAniwa/legacylancers-sub003/utils"
)

// nextSlotWindowDays bounds the forward search of GetNextAvailableSlot.
const nextSlotWindowDays = 30

// casAttempts bounds optimistic retries on a capacity reservation before the
// conflict is surfaced to the caller.
const casAttempts = 3

// SlotSearchEngine composes the recurrence expander and the timezone adapter
// to produce bookable candidate windows and reserve capacity on them.
type SlotSearchEngine struct {
	Repo     availabilityRepo.AvailabilityRepository
	Expander *RecurrenceExpander
	TZ       TimezoneAdapter
	// LeadTime is the minimum gap between "now" and a bookable start.
	LeadTime time.Duration
	Now      func() time.Time
}

func (se *SlotSearchEngine) now() time.Time {
	if se.Now != nil {
		return se.Now()
	}
	return time.Now()
}

// isBookable is the pure lead-time predicate applied before any capacity
// reservation.
func (se *SlotSearchEngine) isBookable(now, requestedStart time.Time) bool {
	return !requestedStart.Before(now.Add(se.LeadTime))
}

// FindAvailableSlots expands the owner's active slots over the range and
// partitions each occurrence into duration-length candidates stepped by
// duration+buffer. Occurrences at capacity are dropped. Results are ordered
// ascending by absolute start time.
func (se *SlotSearchEngine) FindAvailableSlots(ctx context.Context, ownerID, rangeStart, rangeEnd string, durationMinutes, bufferMinutes int, category string) ([]models.CandidateSlot, error) {
	if durationMinutes <= 0 {
		return nil, utils.ValidationError(CodeInvalidTime, "durationMinutes", "duration must be positive")
	}

	slots, err := se.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.InternalError("listing owner slots", err)
	}

	logger := utils.GetLogger()
	var candidates []models.CandidateSlot
	for i := range slots {
		slot := &slots[i]
		if slot.Status != models.SlotStatusActive || slot.ScheduleType == models.ScheduleBlocked {
			continue
		}
		if category != "" && slot.Category != category {
			continue
		}

		instances, err := se.Expander.Expand(slot, rangeStart, rangeEnd)
		if err != nil {
			return nil, err
		}
		for _, inst := range instances {
			if inst.CurrentBookings >= inst.MaxBookings {
				continue
			}

			absStart, err := se.TZ.CombineDateTimeInTimeZone(inst.Date, inst.StartTime, slot.TimeZone)
			if err != nil {
				logger.Warn("skipping slot with unresolvable zone",
					zap.String("slotID", slot.ID), zap.String("timeZone", slot.TimeZone), zap.Error(err))
				continue
			}
			absEnd, err := se.TZ.CombineDateTimeInTimeZone(inst.Date, inst.EndTime, slot.TimeZone)
			if err != nil {
				continue
			}

			for _, window := range se.TZ.GenerateTimeSlots(absStart, absEnd, durationMinutes, nil, bufferMinutes) {
				startClock, err := se.TZ.FormatDateTime(window.Start, slot.TimeZone, clockLayout)
				if err != nil {
					continue
				}
				endClock, _ := se.TZ.FormatDateTime(window.End, slot.TimeZone, clockLayout)
				candidates = append(candidates, models.CandidateSlot{
					ParentSlotID: inst.ParentSlotID,
					Date:         inst.Date,
					StartTime:    startClock,
					EndTime:      endClock,
					Start:        window.Start,
					End:          window.End,
					Duration:     durationMinutes,
					HourlyRate:   inst.HourlyRate,
					Currency:     inst.Currency,
					Category:     inst.Category,
					Remaining:    inst.MaxBookings - inst.CurrentBookings,
				})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Start.Before(candidates[j].Start)
	})
	return candidates, nil
}

// GetNextAvailableSlot returns the earliest candidate starting at or after
// `from` within a 30-day window. It distinguishes an owner with no active
// slots at all (NO_AVAILABILITY) from one with slots but no qualifying
// candidate (NO_SLOTS_AVAILABLE).
func (se *SlotSearchEngine) GetNextAvailableSlot(ctx context.Context, ownerID string, from time.Time, durationMinutes int, category string) (*models.CandidateSlot, error) {
	slots, err := se.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.InternalError("listing owner slots", err)
	}
	hasActive := false
	for _, slot := range slots {
		if slot.Status == models.SlotStatusActive && slot.ScheduleType != models.ScheduleBlocked {
			hasActive = true
			break
		}
	}
	if !hasActive {
		return nil, utils.NotFoundError(CodeNoAvailability, "owner has no active availability")
	}

	// Expand from one calendar day before `from` so a zone behind UTC whose
	// local date still lags the UTC date is not cut out of the window. The
	// Start filter below trims anything that already passed.
	rangeStart := from.UTC().AddDate(0, 0, -1).Format(dateLayout)
	rangeEnd := from.UTC().AddDate(0, 0, nextSlotWindowDays).Format(dateLayout)
	candidates, err := se.FindAvailableSlots(ctx, ownerID, rangeStart, rangeEnd, durationMinutes, 0, category)
	if err != nil {
		return nil, err
	}
	horizon := from.AddDate(0, 0, nextSlotWindowDays)
	for i := range candidates {
		if candidates[i].Start.Before(from) {
			continue
		}
		if candidates[i].Start.After(horizon) {
			break
		}
		return &candidates[i], nil
	}
	return nil, utils.NotFoundError(CodeNoSlotsAvailable, "no slot satisfies the requested duration within the search window")
}

// BookTimeSlot reserves one capacity unit on a slot for the requested window.
// It only adjusts the capacity counter; it does not open an engagement
// lifecycle record. The increment is a compare-and-swap against the slot's
// version stamp, retried a bounded number of times on concurrent updates.
func (se *SlotSearchEngine) BookTimeSlot(ctx context.Context, cmd models.BookSlotCommand) (*models.BookingReceipt, error) {
	requestedStart, err := time.Parse(time.RFC3339, cmd.Start)
	if err != nil {
		return nil, utils.ValidationError(CodeInvalidTime, "start", "start must be RFC 3339")
	}
	requestedEnd, err := time.Parse(time.RFC3339, cmd.End)
	if err != nil {
		return nil, utils.ValidationError(CodeInvalidTime, "end", "end must be RFC 3339")
	}
	if !requestedStart.Before(requestedEnd) {
		return nil, utils.ValidationError(CodeInvalidTime, "end", "end must be after start")
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		slot, err := se.Repo.GetByID(ctx, cmd.SlotID)
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			return nil, errSlotNotFound()
		}
		if err != nil {
			return nil, utils.InternalError("loading slot", err)
		}

		if slot.Status != models.SlotStatusActive || slot.ScheduleType == models.ScheduleBlocked {
			return nil, utils.ConflictError(CodeNotBookable, "slot is not open for booking")
		}
		if !se.isBookable(se.now(), requestedStart) {
			return nil, utils.ConflictError(CodeNotBookable, "requested start is inside the minimum lead time")
		}
		if slot.CurrentBookings >= slot.MaxBookings {
			return nil, utils.ConflictError(CodeFullyBooked, "slot capacity is exhausted")
		}

		updated, err := se.Repo.IncrementBookings(ctx, slot.ID, slot.Version)
		if errors.Is(err, availabilityRepo.ErrVersionConflict) {
			continue
		}
		if errors.Is(err, availabilityRepo.ErrCapacityFull) {
			return nil, utils.ConflictError(CodeFullyBooked, "slot capacity is exhausted")
		}
		if err != nil {
			return nil, utils.InternalError("reserving capacity", err)
		}

		return &models.BookingReceipt{
			SlotID:     updated.ID,
			OwnerID:    updated.OwnerID,
			Start:      requestedStart,
			End:        requestedEnd,
			Booked:     updated.CurrentBookings,
			Capacity:   updated.MaxBookings,
			ReservedAt: se.now().UTC(),
		}, nil
	}
	return nil, errVersionConflict()
}

// ReleaseTimeSlot hands one reserved capacity unit back to a slot, the
// inverse of BookTimeSlot. A counter already at zero is left alone.
func (se *SlotSearchEngine) ReleaseTimeSlot(ctx context.Context, slotID string) (*models.AvailabilitySlot, error) {
	updated, err := se.Repo.DecrementBookings(ctx, slotID)
	if errors.Is(err, availabilityRepo.ErrNotFound) {
		return nil, errSlotNotFound()
	}
	if err != nil {
		return nil, utils.InternalError("releasing capacity", err)
	}
	return updated, nil
}
