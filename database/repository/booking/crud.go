// File: database/repository/booking/crud.go
package bookingRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/EAniwa/legacylancers-sub003/models"
)

func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	_, err := r.coll.InsertOne(ctx, booking)
	return err
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *mongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": booking.ID, "version": booking.Version}
	booking.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"title":              booking.Title,
			"description":        booking.Description,
			"engagementType":     booking.EngagementType,
			"proposedRate":       booking.ProposedRate,
			"proposedRateType":   booking.ProposedRateType,
			"estimatedHours":     booking.EstimatedHours,
			"urgencyLevel":       booking.UrgencyLevel,
			"status":             booking.Status,
			"agreedRate":         booking.AgreedRate,
			"agreedRateType":     booking.AgreedRateType,
			"retireeResponse":    booking.RetireeResponse,
			"rejectionReason":    booking.RejectionReason,
			"cancellationReason": booking.CancellationReason,
			"updatedAt":          booking.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, getErr := r.GetByID(ctx, booking.ID); getErr != nil {
			return getErr
		}
		return ErrVersionConflict
	}
	booking.Version++
	return nil
}

func (r *mongoBookingRepo) AppendHistory(ctx context.Context, entry *models.BookingHistoryEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err := r.history.InsertOne(ctx, entry)
	return err
}
