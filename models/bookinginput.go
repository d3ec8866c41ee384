package models

// Typed command payloads for the booking lifecycle. Each command is validated
// before it reaches the state machine; handlers never pass raw request maps
// through.

// CreateBookingCommand opens an engagement request against a retiree.
type CreateBookingCommand struct {
	ClientID         string  `json:"clientId"`
	RetireeID        string  `json:"retireeId"`
	ClientProfileID  string  `json:"clientProfileId,omitempty"`
	RetireeProfileID string  `json:"retireeProfileId,omitempty"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	EngagementType   string  `json:"engagementType,omitempty"`
	ProposedRate     float64 `json:"proposedRate,omitempty"`
	ProposedRateType string  `json:"proposedRateType,omitempty"`
	EstimatedHours   float64 `json:"estimatedHours,omitempty"`
	UrgencyLevel     string  `json:"urgencyLevel,omitempty"`
}

// AcceptBookingCommand records the retiree's agreement terms.
type AcceptBookingCommand struct {
	AgreedRate      float64 `json:"agreedRate,omitempty"`
	AgreedRateType  string  `json:"agreedRateType,omitempty"`
	RetireeResponse string  `json:"retireeResponse,omitempty"`
}

// RejectBookingCommand declines a request with a reason.
type RejectBookingCommand struct {
	Reason string `json:"reason"`
}

// CancelBookingCommand withdraws a request or an accepted engagement.
type CancelBookingCommand struct {
	Reason string `json:"reason"`
}

// UpdateBookingCommand mutates non-status fields of a pending request.
// Pointer fields distinguish "leave alone" from "set to zero value".
type UpdateBookingCommand struct {
	Title            *string  `json:"title,omitempty"`
	Description      *string  `json:"description,omitempty"`
	EngagementType   *string  `json:"engagementType,omitempty"`
	ProposedRate     *float64 `json:"proposedRate,omitempty"`
	ProposedRateType *string  `json:"proposedRateType,omitempty"`
	EstimatedHours   *float64 `json:"estimatedHours,omitempty"`
	UrgencyLevel     *string  `json:"urgencyLevel,omitempty"`
}

// Empty reports whether the update carries no field at all.
func (c UpdateBookingCommand) Empty() bool {
	return c.Title == nil && c.Description == nil && c.EngagementType == nil &&
		c.ProposedRate == nil && c.ProposedRateType == nil &&
		c.EstimatedHours == nil && c.UrgencyLevel == nil
}

// BookingListFilter narrows booking listings. Zero values mean "no filter".
type BookingListFilter struct {
	ClientID   string `json:"clientId,omitempty"`
	RetireeID  string `json:"retireeId,omitempty"`
	Status     string `json:"status,omitempty"`
	Engagement string `json:"engagementType,omitempty"`
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"pageSize,omitempty"`
}
