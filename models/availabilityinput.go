package models

// CreateAvailabilityCommand declares a new availability slot for an owner.
type CreateAvailabilityCommand struct {
	OwnerID      string          `json:"ownerId"`
	ScheduleType string          `json:"scheduleType"`
	Recurrence   *RecurrenceRule `json:"recurrence,omitempty"`
	StartDate    string          `json:"startDate,omitempty"`
	EndDate      string          `json:"endDate,omitempty"`
	StartTime    string          `json:"startTime"`
	EndTime      string          `json:"endTime"`
	TimeZone     string          `json:"timeZone"`
	Category     string          `json:"category,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	HourlyRate   float64         `json:"hourlyRate"`
	Currency     string          `json:"currency,omitempty"`
	MaxBookings  int             `json:"maxBookings"`
}

// UpdateAvailabilityCommand mutates an existing slot. Pointer fields
// distinguish "leave alone" from "set to zero value".
type UpdateAvailabilityCommand struct {
	ScheduleType *string         `json:"scheduleType,omitempty"`
	Recurrence   *RecurrenceRule `json:"recurrence,omitempty"`
	StartDate    *string         `json:"startDate,omitempty"`
	EndDate      *string         `json:"endDate,omitempty"`
	StartTime    *string         `json:"startTime,omitempty"`
	EndTime      *string         `json:"endTime,omitempty"`
	TimeZone     *string         `json:"timeZone,omitempty"`
	Category     *string         `json:"category,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	HourlyRate   *float64        `json:"hourlyRate,omitempty"`
	Currency     *string         `json:"currency,omitempty"`
	MaxBookings  *int            `json:"maxBookings,omitempty"`
	Status       *string         `json:"status,omitempty"`
}

// AvailabilityListFilter narrows slot listings. Zero values mean "no filter".
type AvailabilityListFilter struct {
	OwnerID   string   `json:"ownerId,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Category  string   `json:"category,omitempty"`
	Status    string   `json:"status,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	SortBy    string   `json:"sortBy,omitempty"` // startDate | createdAt | hourlyRate
	SortDesc  bool     `json:"sortDesc,omitempty"`
	Page      int      `json:"page,omitempty"`
	PageSize  int      `json:"pageSize,omitempty"`
}

// BookSlotCommand reserves capacity on a concrete slot occurrence.
type BookSlotCommand struct {
	SlotID string `json:"slotId"`
	Start  string `json:"start"` // RFC 3339
	End    string `json:"end"`   // RFC 3339
}
