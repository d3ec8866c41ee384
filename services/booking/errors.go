package booking

import "github.com/EAniwa/legacylancers-sub003/utils"

// Stable error codes surfaced by the booking lifecycle.
const (
	CodeBookingNotFound       = "BOOKING_NOT_FOUND"
	CodeSelfBooking           = "CLIENT_EQUALS_RETIREE"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeUnauthorizedClient    = "UNAUTHORIZED_NOT_CLIENT"
	CodeUnauthorizedRetiree   = "UNAUTHORIZED_NOT_RETIREE"
	CodeUnauthorizedCanceller = "UNAUTHORIZED_NOT_CANCELLER"
	CodeReasonTooShort        = "REASON_TOO_SHORT"
	CodeEmptyUpdate           = "EMPTY_UPDATE"
	CodeVersionConflict       = "VERSION_CONFLICT"
	CodeRateLimited           = "BOOKING_RATE_LIMITED"
)

func errBookingNotFound() *utils.AppError {
	return utils.NotFoundError(CodeBookingNotFound, "booking does not exist")
}

func errInvalidTransition(from string, t Transition) *utils.AppError {
	return utils.ConflictError(CodeInvalidTransition, "transition "+string(t)+" is not defined from status "+from)
}

func errVersionConflict() *utils.AppError {
	return utils.ConflictError(CodeVersionConflict, "booking was modified concurrently; re-read and retry")
}
