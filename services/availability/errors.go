package availability

import "github.com/EAniwa/legacylancers-sub003/utils"

// Stable error codes surfaced by the availability engine.
const (
	CodeSlotNotFound     = "SLOT_NOT_FOUND"
	CodeSlotOverlap      = "SLOT_OVERLAP"
	CodeSlotHasBookings  = "SLOT_HAS_BOOKINGS"
	CodeNotBookable      = "NOT_BOOKABLE"
	CodeFullyBooked      = "FULLY_BOOKED"
	CodeNoAvailability   = "NO_AVAILABILITY"
	CodeNoSlotsAvailable = "NO_SLOTS_AVAILABLE"
	CodeVersionConflict  = "VERSION_CONFLICT"
	CodeInvalidSchedule  = "INVALID_SCHEDULE"
	CodeInvalidTime      = "INVALID_TIME_FORMAT"
	CodeInvalidTimeZone  = "INVALID_TIMEZONE"
	CodeUnauthorized     = "UNAUTHORIZED_NOT_OWNER"
)

func errSlotNotFound() *utils.AppError {
	return utils.NotFoundError(CodeSlotNotFound, "availability slot does not exist")
}

func errNotOwner() *utils.AppError {
	return utils.UnauthorizedError(CodeUnauthorized, "caller is not the owner of this availability slot")
}

func errVersionConflict() *utils.AppError {
	return utils.ConflictError(CodeVersionConflict, "slot was modified concurrently; re-read and retry")
}
