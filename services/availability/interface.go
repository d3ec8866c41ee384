package availability

import (
	"context"
	"time"

	availabilityRepo "github.com/EAniwa/legacylancers-sub003/database/repository/availability"
	"github.com/EAniwa/legacylancers-sub003/models"
)

// AvailabilityService is the engine's public surface: slot CRUD, conflict
// checking, timezone-aware slot search and capacity reservation.
type AvailabilityService interface {
	Create(ctx context.Context, actor models.Actor, cmd models.CreateAvailabilityCommand) (*models.AvailabilitySlot, error)
	GetByID(ctx context.Context, id string) (*models.AvailabilitySlot, error)
	List(ctx context.Context, filter models.AvailabilityListFilter) (models.Page[models.AvailabilitySlot], error)
	Update(ctx context.Context, actor models.Actor, id string, cmd models.UpdateAvailabilityCommand) (*models.AvailabilitySlot, error)
	Delete(ctx context.Context, actor models.Actor, id string) error

	CheckConflicts(ctx context.Context, candidate *models.AvailabilitySlot, excludeID string) ([]models.AvailabilitySlot, error)
	FindAvailableSlots(ctx context.Context, ownerID, rangeStart, rangeEnd string, durationMinutes, bufferMinutes int, category string) ([]models.CandidateSlot, error)
	GetNextAvailableSlot(ctx context.Context, ownerID string, from time.Time, durationMinutes int, category string) (*models.CandidateSlot, error)
	BookTimeSlot(ctx context.Context, cmd models.BookSlotCommand) (*models.BookingReceipt, error)
	ReleaseTimeSlot(ctx context.Context, slotID string) (*models.AvailabilitySlot, error)

	ConvertTimeZone(instant time.Time, fromTZ, toTZ string) (time.Time, error)
	OwnerStats(ctx context.Context, ownerID string) (*models.OwnerAvailabilityStats, error)
}

// DefaultAvailabilityService implements AvailabilityService.
type DefaultAvailabilityService struct {
	Repo     availabilityRepo.AvailabilityRepository
	Detector *ConflictDetector
	Engine   *SlotSearchEngine
	TZ       TimezoneAdapter
}
