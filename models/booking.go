package models

import "time"

// Booking lifecycle statuses. Rejected and cancelled are terminal; accepted
// still admits cancellation by the client.
const (
	BookingStatusRequest   = "request"
	BookingStatusAccepted  = "accepted"
	BookingStatusRejected  = "rejected"
	BookingStatusCancelled = "cancelled"
)

// Booking is an engagement request/agreement between a client and a retiree.
type Booking struct {
	ID                 string    `bson:"id" json:"id"`
	ClientID           string    `bson:"clientId" json:"clientId"`
	RetireeID          string    `bson:"retireeId" json:"retireeId"`
	ClientProfileID    string    `bson:"clientProfileId,omitempty" json:"clientProfileId,omitempty"`
	RetireeProfileID   string    `bson:"retireeProfileId,omitempty" json:"retireeProfileId,omitempty"`
	Title              string    `bson:"title" json:"title"`
	Description        string    `bson:"description" json:"description"`
	EngagementType     string    `bson:"engagementType,omitempty" json:"engagementType,omitempty"`
	ProposedRate       float64   `bson:"proposedRate,omitempty" json:"proposedRate,omitempty"`
	ProposedRateType   string    `bson:"proposedRateType,omitempty" json:"proposedRateType,omitempty"`
	EstimatedHours     float64   `bson:"estimatedHours,omitempty" json:"estimatedHours,omitempty"`
	UrgencyLevel       string    `bson:"urgencyLevel,omitempty" json:"urgencyLevel,omitempty"`
	Status             string    `bson:"status" json:"status"`
	AgreedRate         float64   `bson:"agreedRate,omitempty" json:"agreedRate,omitempty"`
	AgreedRateType     string    `bson:"agreedRateType,omitempty" json:"agreedRateType,omitempty"`
	RetireeResponse    string    `bson:"retireeResponse,omitempty" json:"retireeResponse,omitempty"`
	RejectionReason    string    `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	CancellationReason string    `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	Version            int       `bson:"version" json:"version"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Terminal reports whether no further lifecycle transition is defined from
// the booking's current status. Accepted still admits cancellation, so only
// rejected and cancelled are terminal.
func (b *Booking) Terminal() bool {
	return b.Status == BookingStatusRejected || b.Status == BookingStatusCancelled
}

// BookingHistoryEntry is an append-only audit record. Exactly one entry is
// written per successful transition; entries are never mutated or deleted.
type BookingHistoryEntry struct {
	ID         string            `bson:"id" json:"id"`
	BookingID  string            `bson:"bookingId" json:"bookingId"`
	EventType  string            `bson:"eventType" json:"eventType"`
	FromStatus string            `bson:"fromStatus,omitempty" json:"fromStatus,omitempty"`
	ToStatus   string            `bson:"toStatus" json:"toStatus"`
	ActorID    string            `bson:"actorId" json:"actorId"`
	Timestamp  time.Time         `bson:"timestamp" json:"timestamp"`
	Metadata   map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// BookingDashboardStats aggregates a caller's bookings for the dashboard view.
type BookingDashboardStats struct {
	Total             int            `json:"total"`
	ByStatus          map[string]int `json:"byStatus"`
	AverageAgreedRate float64        `json:"averageAgreedRate,omitempty"`
}
