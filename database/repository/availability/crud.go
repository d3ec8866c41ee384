// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/EAniwa/legacylancers-sub003/models"
)

func (r *mongoAvailabilityRepo) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	slot.Version = 1

	_, err := r.coll.InsertOne(ctx, slot)
	return err
}

func (r *mongoAvailabilityRepo) GetByID(ctx context.Context, id string) (*models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.AvailabilitySlot
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoAvailabilityRepo) Update(ctx context.Context, slot *models.AvailabilitySlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slot.ID, "version": slot.Version}
	slot.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"scheduleType":    slot.ScheduleType,
			"recurrence":      slot.Recurrence,
			"startDate":       slot.StartDate,
			"endDate":         slot.EndDate,
			"startTime":       slot.StartTime,
			"endTime":         slot.EndTime,
			"timeZone":        slot.TimeZone,
			"category":        slot.Category,
			"tags":            slot.Tags,
			"hourlyRate":      slot.HourlyRate,
			"currency":        slot.Currency,
			"maxBookings":     slot.MaxBookings,
			"currentBookings": slot.CurrentBookings,
			"status":          slot.Status,
			"updatedAt":       slot.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a stale version from a missing document.
		if _, getErr := r.GetByID(ctx, slot.ID); getErr != nil {
			return getErr
		}
		return ErrVersionConflict
	}
	slot.Version++
	return nil
}

func (r *mongoAvailabilityRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoAvailabilityRepo) IncrementBookings(ctx context.Context, id string, version int) (*models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      id,
		"version": version,
		"$expr":   bson.M{"$lt": []any{"$currentBookings", "$maxBookings"}},
	}
	update := bson.M{
		"$inc": bson.M{"currentBookings": 1, "version": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if current.CurrentBookings >= current.MaxBookings {
			return nil, ErrCapacityFull
		}
		return nil, ErrVersionConflict
	}
	return r.GetByID(ctx, id)
}

func (r *mongoAvailabilityRepo) DecrementBookings(ctx context.Context, id string) (*models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "currentBookings": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"currentBookings": -1, "version": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return nil, err
	}
	// A zero match means the counter was already at its floor; the reload
	// distinguishes that from a missing document.
	return r.GetByID(ctx, id)
}
