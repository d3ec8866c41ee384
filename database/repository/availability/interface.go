// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"
	"errors"

	"github.com/EAniwa/legacylancers-sub003/database"
	"github.com/EAniwa/legacylancers-sub003/models"
	"github.com/EAniwa/legacylancers-sub003/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors shared by all implementations. Services translate these
// into the public error taxonomy.
var (
	ErrNotFound        = errors.New("availability slot not found")
	ErrVersionConflict = errors.New("availability slot version conflict")
	ErrCapacityFull    = errors.New("availability slot fully booked")
)

// AvailabilityRepository owns identity, CRUD and owner indexing for
// availability slots. Every mutation is a compare-and-swap against the
// version stamp last read by the caller.
type AvailabilityRepository interface {
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	GetByID(ctx context.Context, id string) (*models.AvailabilitySlot, error)
	// Update persists slot iff the stored version equals slot.Version and
	// bumps the version stamp. Returns ErrVersionConflict on a stale read.
	Update(ctx context.Context, slot *models.AvailabilitySlot) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.AvailabilitySlot, error)
	List(ctx context.Context, filter models.AvailabilityListFilter) ([]models.AvailabilitySlot, int64, error)
	// IncrementBookings atomically reserves one capacity unit. Fails with
	// ErrVersionConflict on a stale version and ErrCapacityFull when
	// currentBookings has already reached maxBookings.
	IncrementBookings(ctx context.Context, id string, version int) (*models.AvailabilitySlot, error)
	// DecrementBookings hands one reserved unit back. A counter already
	// at zero is left untouched rather than erroring.
	DecrementBookings(ctx context.Context, id string) (*models.AvailabilitySlot, error)
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	db := database.MongoClient.Database("legacylancers")
	repo := &mongoAvailabilityRepo{
		coll: db.Collection("availability_slots"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("availability repo: failed to ensure indexes: %v", err)
	}
	return repo
}
