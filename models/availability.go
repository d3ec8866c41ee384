package models

import "time"

// Schedule types supported by an availability slot.
const (
	ScheduleOneTime   = "one_time"
	ScheduleRecurring = "recurring"
	ScheduleBlocked   = "blocked"
)

// Availability slot statuses.
const (
	SlotStatusActive   = "active"
	SlotStatusInactive = "inactive"
	SlotStatusBooked   = "booked"
)

// RecurrenceRule describes how a recurring slot repeats.
// Weekdays uses time.Weekday numbering (Sunday = 0).
type RecurrenceRule struct {
	Weekdays      []time.Weekday `bson:"weekdays" json:"weekdays"`
	IntervalWeeks int            `bson:"intervalWeeks,omitempty" json:"intervalWeeks,omitempty"` // 1 = every week, 2 = every other week
}

// AvailabilitySlot is a retiree's declared availability window.
// Dates are "2006-01-02" strings; times are local wall-clock "15:04" strings
// interpreted in TimeZone.
type AvailabilitySlot struct {
	ID              string          `bson:"id" json:"id"`
	OwnerID         string          `bson:"ownerId" json:"ownerId"`
	ScheduleType    string          `bson:"scheduleType" json:"scheduleType"`
	Recurrence      *RecurrenceRule `bson:"recurrence,omitempty" json:"recurrence,omitempty"`
	StartDate       string          `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate         string          `bson:"endDate,omitempty" json:"endDate,omitempty"` // empty = open ended
	StartTime       string          `bson:"startTime" json:"startTime"`
	EndTime         string          `bson:"endTime" json:"endTime"`
	TimeZone        string          `bson:"timeZone" json:"timeZone"`
	Category        string          `bson:"category,omitempty" json:"category,omitempty"`
	Tags            []string        `bson:"tags,omitempty" json:"tags,omitempty"`
	HourlyRate      float64         `bson:"hourlyRate" json:"hourlyRate"`
	Currency        string          `bson:"currency,omitempty" json:"currency,omitempty"`
	MaxBookings     int             `bson:"maxBookings" json:"maxBookings"`
	CurrentBookings int             `bson:"currentBookings" json:"currentBookings"`
	Status          string          `bson:"status" json:"status"`
	Version         int             `bson:"version" json:"version"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// AvailabilityInstance is a concrete dated occurrence derived from a slot for
// a bounded query window. Instances are never persisted.
type AvailabilityInstance struct {
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	ParentSlotID    string  `json:"parentSlotId"`
	Category        string  `json:"category,omitempty"`
	HourlyRate      float64 `json:"hourlyRate"`
	Currency        string  `json:"currency,omitempty"`
	MaxBookings     int     `json:"maxBookings"`
	CurrentBookings int     `json:"currentBookings"`
}

// CandidateSlot is a bookable window carved out of an instance, with absolute
// instants resolved through the slot's timezone.
type CandidateSlot struct {
	ParentSlotID string    `json:"parentSlotId"`
	Date         string    `json:"date"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Duration     int       `json:"durationMinutes"`
	HourlyRate   float64   `json:"hourlyRate"`
	Currency     string    `json:"currency,omitempty"`
	Category     string    `json:"category,omitempty"`
	Remaining    int       `json:"remainingCapacity"`
}

// BookingReceipt is returned by the capacity reservation path. It records the
// reserved window but is not a Booking lifecycle record.
type BookingReceipt struct {
	SlotID     string    `json:"slotId"`
	OwnerID    string    `json:"ownerId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Booked     int       `json:"currentBookings"`
	Capacity   int       `json:"maxBookings"`
	ReservedAt time.Time `json:"reservedAt"`
}

// OwnerAvailabilityStats summarizes a retiree's declared availability.
type OwnerAvailabilityStats struct {
	OwnerID       string         `json:"ownerId"`
	TotalSlots    int            `json:"totalSlots"`
	ActiveSlots   int            `json:"activeSlots"`
	BlockedSlots  int            `json:"blockedSlots"`
	TotalCapacity int            `json:"totalCapacity"`
	TotalBooked   int            `json:"totalBooked"`
	ByCategory    map[string]int `json:"byCategory"`
}
