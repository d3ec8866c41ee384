package booking

import "github.com/EAniwa/legacylancers-sub003/models"

// Transition names the lifecycle events a caller may request.
type Transition string

const (
	TransitionAccept Transition = "accept"
	TransitionReject Transition = "reject"
	TransitionCancel Transition = "cancel"
	TransitionUpdate Transition = "update"
)

// targetStatus maps a transition to the status it produces. Update mutates
// fields without changing status and so has no target.
var targetStatus = map[Transition]string{
	TransitionAccept: models.BookingStatusAccepted,
	TransitionReject: models.BookingStatusRejected,
	TransitionCancel: models.BookingStatusCancelled,
}

// transitionTable is the state machine as data: current status × role →
// transitions the role may request. Admins additionally inherit the client's
// cancellation right (handled in allowedTransitions, not duplicated here).
var transitionTable = map[string]map[string][]Transition{
	models.BookingStatusRequest: {
		models.RoleClient:  {TransitionCancel, TransitionUpdate},
		models.RoleRetiree: {TransitionAccept, TransitionReject},
	},
	models.BookingStatusAccepted: {
		models.RoleClient: {TransitionCancel},
	},
	models.BookingStatusRejected:  {},
	models.BookingStatusCancelled: {},
}

// allowedTransitions returns the transitions a role may request from the
// given status.
func allowedTransitions(status, role string) []Transition {
	byRole, ok := transitionTable[status]
	if !ok {
		return nil
	}
	if role == models.RoleAdmin {
		// Admin override: union of every role's transitions from this status.
		seen := make(map[Transition]bool)
		var all []Transition
		for _, ts := range byRole {
			for _, t := range ts {
				if !seen[t] {
					seen[t] = true
					all = append(all, t)
				}
			}
		}
		return all
	}
	return byRole[role]
}

// transitionAllowed reports whether the role may request the transition from
// the given status.
func transitionAllowed(status, role string, t Transition) bool {
	for _, allowed := range allowedTransitions(status, role) {
		if allowed == t {
			return true
		}
	}
	return false
}

// NextPossibleStates is a pure function of the booking's current status and
// the caller's role against the transition table. Update is excluded because
// it does not change status.
func NextPossibleStates(booking *models.Booking, role string) []string {
	var states []string
	for _, t := range allowedTransitions(booking.Status, role) {
		if target, ok := targetStatus[t]; ok {
			states = append(states, target)
		}
	}
	return states
}
