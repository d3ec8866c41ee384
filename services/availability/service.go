package availability

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	availabilityRepo "github.com/EAniwa/legacylancers-sub003/database/repository/availability"
	"github.com/EAniwa/legacylancers-sub003/models"
	"github.com/EAniwa/legacylancers-sub003/utils"
)

func validateSlot(slot *models.AvailabilitySlot, tz TimezoneAdapter) error {
	switch slot.ScheduleType {
	case models.ScheduleOneTime, models.ScheduleRecurring, models.ScheduleBlocked:
	default:
		return utils.ValidationError(CodeInvalidSchedule, "scheduleType", "scheduleType must be one_time, recurring or blocked")
	}

	start, err := clockMinutes(slot.StartTime)
	if err != nil {
		return utils.ValidationError(CodeInvalidTime, "startTime", err.Error())
	}
	end, err := clockMinutes(slot.EndTime)
	if err != nil {
		return utils.ValidationError(CodeInvalidTime, "endTime", err.Error())
	}
	if end <= start {
		return utils.ValidationError(CodeInvalidTime, "endTime", "endTime must be strictly after startTime")
	}

	if slot.ScheduleType == models.ScheduleRecurring && (slot.Recurrence == nil || len(slot.Recurrence.Weekdays) == 0) {
		return utils.ValidationError(CodeInvalidSchedule, "recurrence", "recurring slot requires a recurrence rule")
	}
	if slot.ScheduleType == models.ScheduleOneTime {
		if slot.StartDate == "" {
			return utils.ValidationError(CodeInvalidSchedule, "startDate", "one_time slot requires a concrete date")
		}
		if _, err := parseDate(slot.StartDate); err != nil {
			return utils.ValidationError(CodeInvalidTime, "startDate", err.Error())
		}
	}
	if slot.EndDate != "" {
		if _, err := parseDate(slot.EndDate); err != nil {
			return utils.ValidationError(CodeInvalidTime, "endDate", err.Error())
		}
	}

	if slot.HourlyRate < 0 {
		return utils.ValidationError("INVALID_RATE", "hourlyRate", "hourlyRate must not be negative")
	}
	if slot.MaxBookings < 1 {
		return utils.ValidationError("INVALID_CAPACITY", "maxBookings", "maxBookings must be at least 1")
	}

	if _, err := tz.CombineDateTimeInTimeZone("2024-01-01", "00:00", slot.TimeZone); err != nil {
		return utils.ValidationError(CodeInvalidTimeZone, "timeZone", "timeZone must be a valid IANA zone name")
	}
	return nil
}

func (s *DefaultAvailabilityService) Create(ctx context.Context, actor models.Actor, cmd models.CreateAvailabilityCommand) (*models.AvailabilitySlot, error) {
	if cmd.OwnerID == "" {
		return nil, utils.ValidationError("MISSING_OWNER", "ownerId", "ownerId is required")
	}
	if cmd.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, errNotOwner()
	}

	slot := &models.AvailabilitySlot{
		OwnerID:      cmd.OwnerID,
		ScheduleType: cmd.ScheduleType,
		Recurrence:   cmd.Recurrence,
		StartDate:    cmd.StartDate,
		EndDate:      cmd.EndDate,
		StartTime:    cmd.StartTime,
		EndTime:      cmd.EndTime,
		TimeZone:     cmd.TimeZone,
		Category:     cmd.Category,
		Tags:         cmd.Tags,
		HourlyRate:   cmd.HourlyRate,
		Currency:     cmd.Currency,
		MaxBookings:  cmd.MaxBookings,
		Status:       models.SlotStatusActive,
	}
	if err := validateSlot(slot, s.TZ); err != nil {
		return nil, err
	}

	conflicts, err := s.Detector.FindConflicts(ctx, slot, "")
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, utils.ConflictError(CodeSlotOverlap, "slot overlaps an existing availability window")
	}

	if err := s.Repo.Create(ctx, slot); err != nil {
		return nil, utils.InternalError("creating availability slot", err)
	}
	utils.GetLogger().Info("availability slot created",
		zap.String("slotID", slot.ID), zap.String("ownerID", slot.OwnerID))
	return slot, nil
}

func (s *DefaultAvailabilityService) GetByID(ctx context.Context, id string) (*models.AvailabilitySlot, error) {
	slot, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, availabilityRepo.ErrNotFound) {
		return nil, errSlotNotFound()
	}
	if err != nil {
		return nil, utils.InternalError("loading availability slot", err)
	}
	return slot, nil
}

func (s *DefaultAvailabilityService) List(ctx context.Context, filter models.AvailabilityListFilter) (models.Page[models.AvailabilitySlot], error) {
	slots, total, err := s.Repo.List(ctx, filter)
	if err != nil {
		return models.Page[models.AvailabilitySlot]{}, utils.InternalError("listing availability slots", err)
	}
	return models.NewPage(slots, total, filter.Page, filter.PageSize), nil
}

func applyUpdate(slot *models.AvailabilitySlot, cmd models.UpdateAvailabilityCommand) {
	if cmd.ScheduleType != nil {
		slot.ScheduleType = *cmd.ScheduleType
	}
	if cmd.Recurrence != nil {
		slot.Recurrence = cmd.Recurrence
	}
	if cmd.StartDate != nil {
		slot.StartDate = *cmd.StartDate
	}
	if cmd.EndDate != nil {
		slot.EndDate = *cmd.EndDate
	}
	if cmd.StartTime != nil {
		slot.StartTime = *cmd.StartTime
	}
	if cmd.EndTime != nil {
		slot.EndTime = *cmd.EndTime
	}
	if cmd.TimeZone != nil {
		slot.TimeZone = *cmd.TimeZone
	}
	if cmd.Category != nil {
		slot.Category = *cmd.Category
	}
	if cmd.Tags != nil {
		slot.Tags = cmd.Tags
	}
	if cmd.HourlyRate != nil {
		slot.HourlyRate = *cmd.HourlyRate
	}
	if cmd.Currency != nil {
		slot.Currency = *cmd.Currency
	}
	if cmd.MaxBookings != nil {
		slot.MaxBookings = *cmd.MaxBookings
	}
	if cmd.Status != nil {
		slot.Status = *cmd.Status
	}
}

func (s *DefaultAvailabilityService) Update(ctx context.Context, actor models.Actor, id string, cmd models.UpdateAvailabilityCommand) (*models.AvailabilitySlot, error) {
	slot, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, errNotOwner()
	}

	applyUpdate(slot, cmd)
	if slot.MaxBookings < slot.CurrentBookings {
		return nil, utils.ValidationError("INVALID_CAPACITY", "maxBookings", "maxBookings cannot drop below currentBookings")
	}
	if err := validateSlot(slot, s.TZ); err != nil {
		return nil, err
	}

	conflicts, err := s.Detector.FindConflicts(ctx, slot, id)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, utils.ConflictError(CodeSlotOverlap, "updated slot overlaps an existing availability window")
	}

	err = s.Repo.Update(ctx, slot)
	if errors.Is(err, availabilityRepo.ErrVersionConflict) {
		return nil, errVersionConflict()
	}
	if errors.Is(err, availabilityRepo.ErrNotFound) {
		return nil, errSlotNotFound()
	}
	if err != nil {
		return nil, utils.InternalError("updating availability slot", err)
	}
	return slot, nil
}

func (s *DefaultAvailabilityService) Delete(ctx context.Context, actor models.Actor, id string) error {
	slot, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot.OwnerID != actor.ID && !actor.IsAdmin() {
		return errNotOwner()
	}
	if slot.CurrentBookings > 0 {
		return utils.ConflictError(CodeSlotHasBookings, "slot has active bookings and cannot be deleted")
	}

	err = s.Repo.Delete(ctx, id)
	if errors.Is(err, availabilityRepo.ErrNotFound) {
		return errSlotNotFound()
	}
	if err != nil {
		return utils.InternalError("deleting availability slot", err)
	}
	utils.GetLogger().Info("availability slot deleted",
		zap.String("slotID", id), zap.String("actorID", actor.ID))
	return nil
}

func (s *DefaultAvailabilityService) CheckConflicts(ctx context.Context, candidate *models.AvailabilitySlot, excludeID string) ([]models.AvailabilitySlot, error) {
	return s.Detector.FindConflicts(ctx, candidate, excludeID)
}

func (s *DefaultAvailabilityService) FindAvailableSlots(ctx context.Context, ownerID, rangeStart, rangeEnd string, durationMinutes, bufferMinutes int, category string) ([]models.CandidateSlot, error) {
	return s.Engine.FindAvailableSlots(ctx, ownerID, rangeStart, rangeEnd, durationMinutes, bufferMinutes, category)
}

func (s *DefaultAvailabilityService) GetNextAvailableSlot(ctx context.Context, ownerID string, from time.Time, durationMinutes int, category string) (*models.CandidateSlot, error) {
	return s.Engine.GetNextAvailableSlot(ctx, ownerID, from, durationMinutes, category)
}

func (s *DefaultAvailabilityService) BookTimeSlot(ctx context.Context, cmd models.BookSlotCommand) (*models.BookingReceipt, error) {
	return s.Engine.BookTimeSlot(ctx, cmd)
}

func (s *DefaultAvailabilityService) ReleaseTimeSlot(ctx context.Context, slotID string) (*models.AvailabilitySlot, error) {
	return s.Engine.ReleaseTimeSlot(ctx, slotID)
}

func (s *DefaultAvailabilityService) ConvertTimeZone(instant time.Time, fromTZ, toTZ string) (time.Time, error) {
	converted, err := s.TZ.ConvertTimeZone(instant, fromTZ, toTZ)
	if err != nil {
		return time.Time{}, utils.ValidationError(CodeInvalidTimeZone, "toTz", err.Error())
	}
	return converted, nil
}

func (s *DefaultAvailabilityService) OwnerStats(ctx context.Context, ownerID string) (*models.OwnerAvailabilityStats, error) {
	slots, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.InternalError("listing owner slots", err)
	}

	stats := &models.OwnerAvailabilityStats{
		OwnerID:    ownerID,
		ByCategory: make(map[string]int),
	}
	for _, slot := range slots {
		stats.TotalSlots++
		switch {
		case slot.ScheduleType == models.ScheduleBlocked:
			stats.BlockedSlots++
		case slot.Status == models.SlotStatusActive:
			stats.ActiveSlots++
		}
		stats.TotalCapacity += slot.MaxBookings
		stats.TotalBooked += slot.CurrentBookings
		if slot.Category != "" {
			stats.ByCategory[slot.Category]++
		}
	}
	return stats, nil
}
