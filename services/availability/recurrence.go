package availability

import (
	"time"

	"github.com/EAniwa/legacylancers-sub003/models"
	"github.com/EAniwa/legacylancers-sub003/utils"
)

// maxExpansionDays caps day-by-day stepping so a malformed rule can never
// produce a runaway loop.
const maxExpansionDays = 366

// RecurrenceExpander turns stored availability declarations into concrete
// dated instances for a bounded query window.
type RecurrenceExpander struct {
	// UndatedDaily controls whether a slot with no date and no recurrence
	// expands on every day of the queried range. Off unless configured.
	UndatedDaily bool
}

func instanceFrom(slot *models.AvailabilitySlot, date string) models.AvailabilityInstance {
	return models.AvailabilityInstance{
		Date:            date,
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		ParentSlotID:    slot.ID,
		Category:        slot.Category,
		HourlyRate:      slot.HourlyRate,
		Currency:        slot.Currency,
		MaxBookings:     slot.MaxBookings,
		CurrentBookings: slot.CurrentBookings,
	}
}

// matchesRule reports whether day falls on the rule's weekday pattern,
// anchored at the slot's start date for interval stepping.
func matchesRule(rule *models.RecurrenceRule, anchor, day time.Time) bool {
	onWeekday := false
	for _, wd := range rule.Weekdays {
		if day.Weekday() == wd {
			onWeekday = true
			break
		}
	}
	if !onWeekday {
		return false
	}
	if rule.IntervalWeeks > 1 {
		// Weeks are counted from the Sunday of the anchor's week so a
		// biweekly rule stays aligned across weekday sets.
		anchorWeek := anchor.AddDate(0, 0, -int(anchor.Weekday()))
		dayWeek := day.AddDate(0, 0, -int(day.Weekday()))
		weeks := int(dayWeek.Sub(anchorWeek).Hours() / (24 * 7))
		if weeks%rule.IntervalWeeks != 0 {
			return false
		}
	}
	return true
}

// Expand yields the slot's dated occurrences inside [rangeStart, rangeEnd],
// ordered ascending by (date, startTime). Blocked slots never yield bookable
// instances. The result is deterministic for identical inputs.
func (e *RecurrenceExpander) Expand(slot *models.AvailabilitySlot, rangeStart, rangeEnd string) ([]models.AvailabilityInstance, error) {
	if slot.ScheduleType == models.ScheduleBlocked {
		return nil, nil
	}

	from, err := parseDate(rangeStart)
	if err != nil {
		return nil, utils.ValidationError(CodeInvalidTime, "rangeStart", err.Error())
	}
	to, err := parseDate(rangeEnd)
	if err != nil {
		return nil, utils.ValidationError(CodeInvalidTime, "rangeEnd", err.Error())
	}
	if to.Before(from) {
		return nil, utils.ValidationError(CodeInvalidTime, "rangeEnd", "range end precedes range start")
	}

	switch slot.ScheduleType {
	case models.ScheduleOneTime:
		if slot.StartDate == "" {
			return nil, utils.ValidationError(CodeInvalidSchedule, "startDate", "one_time slot requires a concrete date")
		}
		day, err := parseDate(slot.StartDate)
		if err != nil {
			return nil, utils.ValidationError(CodeInvalidTime, "startDate", err.Error())
		}
		if day.Before(from) || day.After(to) {
			return nil, nil
		}
		return []models.AvailabilityInstance{instanceFrom(slot, slot.StartDate)}, nil

	case models.ScheduleRecurring:
		if slot.Recurrence == nil || len(slot.Recurrence.Weekdays) == 0 {
			return nil, utils.ValidationError(CodeInvalidSchedule, "recurrence", "recurring slot requires a recurrence rule")
		}
		return e.expandRecurring(slot, from, to)

	default:
		// No schedule type the expander recognizes: treat like an undated
		// declaration below.
	}

	if slot.StartDate == "" {
		if !e.UndatedDaily {
			return nil, nil
		}
		return e.expandDaily(slot, from, to)
	}

	// Dated but neither one_time nor recurring: single occurrence.
	day, err := parseDate(slot.StartDate)
	if err != nil {
		return nil, utils.ValidationError(CodeInvalidTime, "startDate", err.Error())
	}
	if day.Before(from) || day.After(to) {
		return nil, nil
	}
	return []models.AvailabilityInstance{instanceFrom(slot, slot.StartDate)}, nil
}

func (e *RecurrenceExpander) expandRecurring(slot *models.AvailabilitySlot, from, to time.Time) ([]models.AvailabilityInstance, error) {
	anchor := from
	if slot.StartDate != "" {
		parsed, err := parseDate(slot.StartDate)
		if err != nil {
			return nil, utils.ValidationError(CodeInvalidTime, "startDate", err.Error())
		}
		anchor = parsed
		if parsed.After(from) {
			from = parsed
		}
	}
	if slot.EndDate != "" {
		parsed, err := parseDate(slot.EndDate)
		if err != nil {
			return nil, utils.ValidationError(CodeInvalidTime, "endDate", err.Error())
		}
		if parsed.Before(to) {
			to = parsed
		}
	}

	var instances []models.AvailabilityInstance
	iterations := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if iterations++; iterations > maxExpansionDays {
			break
		}
		if matchesRule(slot.Recurrence, anchor, day) {
			instances = append(instances, instanceFrom(slot, day.Format(dateLayout)))
		}
	}
	return instances, nil
}

func (e *RecurrenceExpander) expandDaily(slot *models.AvailabilitySlot, from, to time.Time) ([]models.AvailabilityInstance, error) {
	var instances []models.AvailabilityInstance
	iterations := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if iterations++; iterations > maxExpansionDays {
			break
		}
		instances = append(instances, instanceFrom(slot, day.Format(dateLayout)))
	}
	return instances, nil
}
