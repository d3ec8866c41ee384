// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"

	"github.com/EAniwa/legacylancers-sub003/database"
	"github.com/EAniwa/legacylancers-sub003/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = errors.New("booking not found")
	ErrVersionConflict = errors.New("booking version conflict")
)

// BookingRepository owns identity and persistence for bookings and their
// append-only history. Booking mutations are compare-and-swap against the
// version stamp last read; history entries are insert-only.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Update persists booking iff the stored version equals booking.Version
	// and bumps the stamp. Returns ErrVersionConflict on a stale read.
	Update(ctx context.Context, booking *models.Booking) error
	List(ctx context.Context, filter models.BookingListFilter) ([]models.Booking, int64, error)

	AppendHistory(ctx context.Context, entry *models.BookingHistoryEntry) error
	GetHistory(ctx context.Context, bookingID string, page, pageSize int) ([]models.BookingHistoryEntry, int64, error)

	StatsForActor(ctx context.Context, actorID string) (*models.BookingDashboardStats, error)
}

type mongoBookingRepo struct {
	coll    *mongo.Collection
	history *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("legacylancers")
	return &mongoBookingRepo{
		coll:    db.Collection("bookings"),
		history: db.Collection("booking_history"),
	}
}
