package booking

import (
	"context"

	bookingRepo "github.com/EAniwa/legacylancers-sub003/database/repository/booking"
	"github.com/EAniwa/legacylancers-sub003/models"
)

// BookingDetail is the read model returned by GetByID: the booking plus the
// transitions open to the caller and its audit trail.
type BookingDetail struct {
	Booking            models.Booking               `json:"booking"`
	NextPossibleStates []string                     `json:"nextPossibleStates"`
	History            []models.BookingHistoryEntry `json:"history"`
}

// BookingService runs the engagement lifecycle between clients and retirees.
type BookingService interface {
	Create(ctx context.Context, actor models.Actor, cmd models.CreateBookingCommand) (*models.Booking, error)
	GetByID(ctx context.Context, actor models.Actor, id string) (*BookingDetail, error)
	List(ctx context.Context, filter models.BookingListFilter) (models.Page[models.Booking], error)

	Accept(ctx context.Context, actor models.Actor, id string, cmd models.AcceptBookingCommand) (*models.Booking, error)
	Reject(ctx context.Context, actor models.Actor, id string, cmd models.RejectBookingCommand) (*models.Booking, error)
	Cancel(ctx context.Context, actor models.Actor, id string, cmd models.CancelBookingCommand) (*models.Booking, error)
	Update(ctx context.Context, actor models.Actor, id string, cmd models.UpdateBookingCommand) (*models.Booking, error)

	GetTransitions(ctx context.Context, actor models.Actor, id string) ([]string, error)
	GetHistory(ctx context.Context, id string, page, pageSize int) (models.Page[models.BookingHistoryEntry], error)
	DashboardStats(ctx context.Context, actor models.Actor) (*models.BookingDashboardStats, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo bookingRepo.BookingRepository
	// Limiter bounds booking creation per client; nil disables the quota.
	Limiter *SlidingWindowLimiter
	// MinReasonLength applies to rejection and cancellation reasons.
	MinReasonLength int
}
