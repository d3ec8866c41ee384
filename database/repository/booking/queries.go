// File: database/repository/booking/queries.go
package bookingRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/EAniwa/legacylancers-sub003/models"
)

func (r *mongoBookingRepo) List(ctx context.Context, filter models.BookingListFilter) ([]models.Booking, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.ClientID != "" {
		query["clientId"] = filter.ClientID
	}
	if filter.RetireeID != "" {
		query["retireeId"] = filter.RetireeID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Engagement != "" {
		query["engagementType"] = filter.Engagement
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *mongoBookingRepo) GetHistory(ctx context.Context, bookingID string, page, pageSize int) ([]models.BookingHistoryEntry, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{"bookingId": bookingID}
	total, err := r.history.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.history.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var entries []models.BookingHistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *mongoBookingRepo) StatsForActor(ctx context.Context, actorID string) (*models.BookingDashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	match := bson.M{"$or": bson.A{
		bson.M{"clientId": actorID},
		bson.M{"retireeId": actorID},
	}}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":        "$status",
			"count":      bson.M{"$sum": 1},
			"agreedRate": bson.M{"$avg": "$agreedRate"},
		}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := &models.BookingDashboardStats{ByStatus: make(map[string]int)}
	var acceptedAvg float64
	for cursor.Next(ctx) {
		var row struct {
			Status     string  `bson:"_id"`
			Count      int     `bson:"count"`
			AgreedRate float64 `bson:"agreedRate"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
		if row.Status == models.BookingStatusAccepted {
			acceptedAvg = row.AgreedRate
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	stats.AverageAgreedRate = acceptedAvg
	return stats, nil
}
