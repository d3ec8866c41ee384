package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	bookingRepo "github.com/EAniwa/legacylancers-sub003/database/repository/booking"
	"github.com/EAniwa/legacylancers-sub003/models"
	"github.com/EAniwa/legacylancers-sub003/utils"
)

const (
	minTitleLength       = 3
	maxTitleLength       = 200
	minDescriptionLength = 10
	maxDescriptionLength = 5000
	historyPreviewSize   = 50
)

// roleFor resolves the actor's role relative to one booking. An actor who is
// neither party nor an admin has no role and fails every gate.
func roleFor(booking *models.Booking, actor models.Actor) string {
	if actor.IsAdmin() {
		return models.RoleAdmin
	}
	switch actor.ID {
	case booking.ClientID:
		return models.RoleClient
	case booking.RetireeID:
		return models.RoleRetiree
	default:
		return ""
	}
}

func (s *DefaultBookingService) minReason() int {
	if s.MinReasonLength > 0 {
		return s.MinReasonLength
	}
	return 10
}

func validateCreate(cmd models.CreateBookingCommand) error {
	if cmd.ClientID == "" {
		return utils.ValidationError("MISSING_CLIENT", "clientId", "clientId is required")
	}
	if cmd.RetireeID == "" {
		return utils.ValidationError("MISSING_RETIREE", "retireeId", "retireeId is required")
	}
	if cmd.ClientID == cmd.RetireeID {
		return utils.ConflictError(CodeSelfBooking, "a client cannot open an engagement with themselves")
	}
	title := strings.TrimSpace(cmd.Title)
	if len(title) < minTitleLength || len(title) > maxTitleLength {
		return utils.ValidationError("INVALID_TITLE", "title", "title must be between 3 and 200 characters")
	}
	desc := strings.TrimSpace(cmd.Description)
	if len(desc) < minDescriptionLength || len(desc) > maxDescriptionLength {
		return utils.ValidationError("INVALID_DESCRIPTION", "description", "description must be between 10 and 5000 characters")
	}
	if cmd.ProposedRate < 0 {
		return utils.ValidationError("INVALID_RATE", "proposedRate", "proposedRate must not be negative")
	}
	return nil
}

func (s *DefaultBookingService) Create(ctx context.Context, actor models.Actor, cmd models.CreateBookingCommand) (*models.Booking, error) {
	if cmd.ClientID != actor.ID && !actor.IsAdmin() {
		return nil, utils.UnauthorizedError(CodeUnauthorizedClient, "only the client may open an engagement request")
	}
	if err := validateCreate(cmd); err != nil {
		return nil, err
	}
	if s.Limiter != nil && !s.Limiter.Allow(actor.ID) {
		retry := s.Limiter.RetryAfter(actor.ID)
		return nil, utils.RateLimitedError(CodeRateLimited,
			"booking creation quota exceeded; retry after "+retry.Round(time.Second).String())
	}

	booking := &models.Booking{
		ClientID:         cmd.ClientID,
		RetireeID:        cmd.RetireeID,
		ClientProfileID:  cmd.ClientProfileID,
		RetireeProfileID: cmd.RetireeProfileID,
		Title:            strings.TrimSpace(cmd.Title),
		Description:      strings.TrimSpace(cmd.Description),
		EngagementType:   cmd.EngagementType,
		ProposedRate:     cmd.ProposedRate,
		ProposedRateType: cmd.ProposedRateType,
		EstimatedHours:   cmd.EstimatedHours,
		UrgencyLevel:     cmd.UrgencyLevel,
		Status:           models.BookingStatusRequest,
	}
	if err := s.Repo.Create(ctx, booking); err != nil {
		return nil, utils.InternalError("creating booking", err)
	}

	if err := s.appendHistory(ctx, booking, "created", "", models.BookingStatusRequest, actor.ID, nil); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("engagement request opened",
		zap.String("bookingID", booking.ID),
		zap.String("clientID", booking.ClientID),
		zap.String("retireeID", booking.RetireeID))
	return booking, nil
}

func (s *DefaultBookingService) load(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, errBookingNotFound()
	}
	if err != nil {
		return nil, utils.InternalError("loading booking", err)
	}
	return booking, nil
}

// commit persists the transitioned booking with a compare-and-swap and writes
// the single history entry for it. A concurrent transition surfaces as a
// version conflict; the precondition must then be re-checked against the
// fresh status.
func (s *DefaultBookingService) commit(ctx context.Context, booking *models.Booking, event string, from string, actorID string, meta map[string]string) error {
	if err := s.Repo.Update(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			return errVersionConflict()
		}
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return errBookingNotFound()
		}
		return utils.InternalError("persisting booking transition", err)
	}
	return s.appendHistory(ctx, booking, event, from, booking.Status, actorID, meta)
}

func (s *DefaultBookingService) appendHistory(ctx context.Context, booking *models.Booking, event, from, to, actorID string, meta map[string]string) error {
	entry := &models.BookingHistoryEntry{
		BookingID:  booking.ID,
		EventType:  event,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
		Metadata:   meta,
	}
	if err := s.Repo.AppendHistory(ctx, entry); err != nil {
		return utils.InternalError("appending booking history", err)
	}
	return nil
}

func (s *DefaultBookingService) Accept(ctx context.Context, actor models.Actor, id string, cmd models.AcceptBookingCommand) (*models.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	role := roleFor(booking, actor)
	if role != models.RoleRetiree && role != models.RoleAdmin {
		return nil, utils.UnauthorizedError(CodeUnauthorizedRetiree, "only the retiree may accept this request")
	}
	if !transitionAllowed(booking.Status, role, TransitionAccept) {
		return nil, errInvalidTransition(booking.Status, TransitionAccept)
	}
	if cmd.AgreedRate < 0 {
		return nil, utils.ValidationError("INVALID_RATE", "agreedRate", "agreedRate must not be negative")
	}

	from := booking.Status
	booking.Status = models.BookingStatusAccepted
	booking.AgreedRate = cmd.AgreedRate
	if booking.AgreedRate == 0 {
		booking.AgreedRate = booking.ProposedRate
	}
	booking.AgreedRateType = cmd.AgreedRateType
	if booking.AgreedRateType == "" {
		booking.AgreedRateType = booking.ProposedRateType
	}
	booking.RetireeResponse = cmd.RetireeResponse

	if err := s.commit(ctx, booking, "accepted", from, actor.ID, nil); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *DefaultBookingService) Reject(ctx context.Context, actor models.Actor, id string, cmd models.RejectBookingCommand) (*models.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	role := roleFor(booking, actor)
	if role != models.RoleRetiree && role != models.RoleAdmin {
		return nil, utils.UnauthorizedError(CodeUnauthorizedRetiree, "only the retiree may reject this request")
	}
	if !transitionAllowed(booking.Status, role, TransitionReject) {
		return nil, errInvalidTransition(booking.Status, TransitionReject)
	}
	reason := strings.TrimSpace(cmd.Reason)
	if len(reason) < s.minReason() {
		return nil, utils.ValidationError(CodeReasonTooShort, "reason", "rejection reason is too short")
	}

	from := booking.Status
	booking.Status = models.BookingStatusRejected
	booking.RejectionReason = reason

	if err := s.commit(ctx, booking, "rejected", from, actor.ID, nil); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *DefaultBookingService) Cancel(ctx context.Context, actor models.Actor, id string, cmd models.CancelBookingCommand) (*models.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	role := roleFor(booking, actor)
	if role != models.RoleClient && role != models.RoleAdmin {
		return nil, utils.UnauthorizedError(CodeUnauthorizedCanceller, "only the client or an admin may cancel this engagement")
	}
	if !transitionAllowed(booking.Status, role, TransitionCancel) {
		return nil, errInvalidTransition(booking.Status, TransitionCancel)
	}
	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		return nil, utils.ValidationError(CodeReasonTooShort, "reason", "cancellation reason is required")
	}

	from := booking.Status
	booking.Status = models.BookingStatusCancelled
	booking.CancellationReason = reason

	if err := s.commit(ctx, booking, "cancelled", from, actor.ID, map[string]string{"role": role}); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *DefaultBookingService) Update(ctx context.Context, actor models.Actor, id string, cmd models.UpdateBookingCommand) (*models.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	role := roleFor(booking, actor)
	if role != models.RoleClient && role != models.RoleAdmin {
		return nil, utils.UnauthorizedError(CodeUnauthorizedClient, "only the client may update this request")
	}
	if !transitionAllowed(booking.Status, role, TransitionUpdate) {
		return nil, errInvalidTransition(booking.Status, TransitionUpdate)
	}
	if cmd.Empty() {
		return nil, utils.ValidationError(CodeEmptyUpdate, "", "update payload carries no fields")
	}

	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		if len(title) < minTitleLength || len(title) > maxTitleLength {
			return nil, utils.ValidationError("INVALID_TITLE", "title", "title must be between 3 and 200 characters")
		}
		booking.Title = title
	}
	if cmd.Description != nil {
		desc := strings.TrimSpace(*cmd.Description)
		if len(desc) < minDescriptionLength || len(desc) > maxDescriptionLength {
			return nil, utils.ValidationError("INVALID_DESCRIPTION", "description", "description must be between 10 and 5000 characters")
		}
		booking.Description = desc
	}
	if cmd.EngagementType != nil {
		booking.EngagementType = *cmd.EngagementType
	}
	if cmd.ProposedRate != nil {
		if *cmd.ProposedRate < 0 {
			return nil, utils.ValidationError("INVALID_RATE", "proposedRate", "proposedRate must not be negative")
		}
		booking.ProposedRate = *cmd.ProposedRate
	}
	if cmd.ProposedRateType != nil {
		booking.ProposedRateType = *cmd.ProposedRateType
	}
	if cmd.EstimatedHours != nil {
		booking.EstimatedHours = *cmd.EstimatedHours
	}
	if cmd.UrgencyLevel != nil {
		booking.UrgencyLevel = *cmd.UrgencyLevel
	}

	// Update mutates non-status fields only and writes no history entry.
	if err := s.Repo.Update(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			return nil, errVersionConflict()
		}
		return nil, utils.InternalError("persisting booking update", err)
	}
	return booking, nil
}

func (s *DefaultBookingService) GetByID(ctx context.Context, actor models.Actor, id string) (*BookingDetail, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	history, _, err := s.Repo.GetHistory(ctx, id, 1, historyPreviewSize)
	if err != nil {
		return nil, utils.InternalError("loading booking history", err)
	}
	return &BookingDetail{
		Booking:            *booking,
		NextPossibleStates: NextPossibleStates(booking, roleFor(booking, actor)),
		History:            history,
	}, nil
}

func (s *DefaultBookingService) List(ctx context.Context, filter models.BookingListFilter) (models.Page[models.Booking], error) {
	bookings, total, err := s.Repo.List(ctx, filter)
	if err != nil {
		return models.Page[models.Booking]{}, utils.InternalError("listing bookings", err)
	}
	return models.NewPage(bookings, total, filter.Page, filter.PageSize), nil
}

func (s *DefaultBookingService) GetTransitions(ctx context.Context, actor models.Actor, id string) ([]string, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NextPossibleStates(booking, roleFor(booking, actor)), nil
}

func (s *DefaultBookingService) GetHistory(ctx context.Context, id string, page, pageSize int) (models.Page[models.BookingHistoryEntry], error) {
	if _, err := s.load(ctx, id); err != nil {
		return models.Page[models.BookingHistoryEntry]{}, err
	}
	entries, total, err := s.Repo.GetHistory(ctx, id, page, pageSize)
	if err != nil {
		return models.Page[models.BookingHistoryEntry]{}, utils.InternalError("loading booking history", err)
	}
	return models.NewPage(entries, total, page, pageSize), nil
}

func (s *DefaultBookingService) DashboardStats(ctx context.Context, actor models.Actor) (*models.BookingDashboardStats, error) {
	stats, err := s.Repo.StatsForActor(ctx, actor.ID)
	if err != nil {
		return nil, utils.InternalError("aggregating booking stats", err)
	}
	return stats, nil
}
