package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EAniwa/legacylancers-sub003/models"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		status  string
		role    string
		t       Transition
		allowed bool
	}{
		{models.BookingStatusRequest, models.RoleRetiree, TransitionAccept, true},
		{models.BookingStatusRequest, models.RoleRetiree, TransitionReject, true},
		{models.BookingStatusRequest, models.RoleRetiree, TransitionCancel, false},
		{models.BookingStatusRequest, models.RoleClient, TransitionCancel, true},
		{models.BookingStatusRequest, models.RoleClient, TransitionUpdate, true},
		{models.BookingStatusRequest, models.RoleClient, TransitionAccept, false},

		{models.BookingStatusAccepted, models.RoleClient, TransitionCancel, true},
		{models.BookingStatusAccepted, models.RoleClient, TransitionUpdate, false},
		{models.BookingStatusAccepted, models.RoleRetiree, TransitionAccept, false},
		{models.BookingStatusAccepted, models.RoleRetiree, TransitionCancel, false},

		{models.BookingStatusRejected, models.RoleClient, TransitionCancel, false},
		{models.BookingStatusRejected, models.RoleRetiree, TransitionAccept, false},
		{models.BookingStatusCancelled, models.RoleClient, TransitionUpdate, false},

		// Admin override: union of every role's transitions.
		{models.BookingStatusRequest, models.RoleAdmin, TransitionAccept, true},
		{models.BookingStatusRequest, models.RoleAdmin, TransitionCancel, true},
		{models.BookingStatusAccepted, models.RoleAdmin, TransitionCancel, true},
		{models.BookingStatusRejected, models.RoleAdmin, TransitionCancel, false},
	}
	for _, tc := range cases {
		got := transitionAllowed(tc.status, tc.role, tc.t)
		assert.Equalf(t, tc.allowed, got, "%s × %s × %s", tc.status, tc.role, tc.t)
	}
}

func TestNextPossibleStates(t *testing.T) {
	request := &models.Booking{Status: models.BookingStatusRequest}
	accepted := &models.Booking{Status: models.BookingStatusAccepted}
	rejected := &models.Booking{Status: models.BookingStatusRejected}

	assert.ElementsMatch(t,
		[]string{models.BookingStatusAccepted, models.BookingStatusRejected},
		NextPossibleStates(request, models.RoleRetiree))

	// Update does not change status and so never appears as a next state.
	assert.ElementsMatch(t,
		[]string{models.BookingStatusCancelled},
		NextPossibleStates(request, models.RoleClient))

	assert.ElementsMatch(t,
		[]string{models.BookingStatusCancelled},
		NextPossibleStates(accepted, models.RoleClient))

	assert.Empty(t, NextPossibleStates(accepted, models.RoleRetiree))
	assert.Empty(t, NextPossibleStates(rejected, models.RoleAdmin))

	// An actor who is no party to the booking sees nothing.
	assert.Empty(t, NextPossibleStates(request, ""))

	assert.ElementsMatch(t,
		[]string{models.BookingStatusAccepted, models.BookingStatusRejected, models.BookingStatusCancelled},
		NextPossibleStates(request, models.RoleAdmin))
}

func TestTerminalPredicate(t *testing.T) {
	assert.False(t, (&models.Booking{Status: models.BookingStatusRequest}).Terminal())
	assert.False(t, (&models.Booking{Status: models.BookingStatusAccepted}).Terminal())
	assert.True(t, (&models.Booking{Status: models.BookingStatusRejected}).Terminal())
	assert.True(t, (&models.Booking{Status: models.BookingStatusCancelled}).Terminal())
}
