package availability

import (
	"context"

	availabilityRepo "github.com/EAniwa/legacylancers-sub003/database/repository/availability"
	"github.com/EAniwa/legacylancers-sub003/models"
	"github.com/EAniwa/legacylancers-sub003/utils"
)

// Overlaps applies the half-open interval rule to two windows expressed in
// minutes from midnight: touching endpoints never conflict, and the check is
// symmetric in its arguments.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// ConflictDetector decides whether a candidate slot collides with an owner's
// existing declarations.
type ConflictDetector struct {
	Repo availabilityRepo.AvailabilityRepository
}

// FindConflicts returns the owner's existing slots whose windows collide with
// the candidate, skipping excludeID (set when re-validating an update).
//
// Slots that both carry concrete dates are compared only when the dates are
// equal. Two recurring slots are compared on wall-clock alone and are not
// cross-expanded against each other's patterns; differently-patterned rules
// that never share a day will still be reported when their clock windows
// collide.
func (d *ConflictDetector) FindConflicts(ctx context.Context, candidate *models.AvailabilitySlot, excludeID string) ([]models.AvailabilitySlot, error) {
	candStart, err := clockMinutes(candidate.StartTime)
	if err != nil {
		return nil, utils.ValidationError(CodeInvalidTime, "startTime", err.Error())
	}
	candEnd, err := clockMinutes(candidate.EndTime)
	if err != nil {
		return nil, utils.ValidationError(CodeInvalidTime, "endTime", err.Error())
	}

	existing, err := d.Repo.ListByOwner(ctx, candidate.OwnerID)
	if err != nil {
		return nil, utils.InternalError("listing owner slots", err)
	}

	var conflicts []models.AvailabilitySlot
	for _, slot := range existing {
		if slot.ID == excludeID || slot.ID == candidate.ID {
			continue
		}
		if slot.Status == models.SlotStatusInactive {
			continue
		}
		if candidate.StartDate != "" && slot.StartDate != "" && candidate.StartDate != slot.StartDate {
			continue
		}

		slotStart, err := clockMinutes(slot.StartTime)
		if err != nil {
			continue
		}
		slotEnd, err := clockMinutes(slot.EndTime)
		if err != nil {
			continue
		}
		if Overlaps(candStart, candEnd, slotStart, slotEnd) {
			conflicts = append(conflicts, slot)
		}
	}
	return conflicts, nil
}
