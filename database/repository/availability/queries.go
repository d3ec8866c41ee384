// File: database/repository/availability/queries.go
package availabilityRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/EAniwa/legacylancers-sub003/models"
)

func (r *mongoAvailabilityRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.AvailabilitySlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoAvailabilityRepo) List(ctx context.Context, filter models.AvailabilityListFilter) ([]models.AvailabilitySlot, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.OwnerID != "" {
		query["ownerId"] = filter.OwnerID
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if len(filter.Tags) > 0 {
		query["tags"] = bson.M{"$all": filter.Tags}
	}
	// Undated recurring slots occur inside any range, so both bounds admit
	// documents without the field.
	var dateClauses bson.A
	if filter.StartDate != "" {
		dateClauses = append(dateClauses, bson.M{"$or": bson.A{
			bson.M{"startDate": bson.M{"$gte": filter.StartDate}},
			bson.M{"startDate": ""},
			bson.M{"startDate": bson.M{"$exists": false}},
		}})
	}
	if filter.EndDate != "" {
		dateClauses = append(dateClauses, bson.M{"$or": bson.A{
			bson.M{"endDate": bson.M{"$lte": filter.EndDate}},
			bson.M{"endDate": ""},
			bson.M{"endDate": bson.M{"$exists": false}},
		}})
	}
	if len(dateClauses) > 0 {
		query["$and"] = dateClauses
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

	sortField := "startDate"
	switch filter.SortBy {
	case "createdAt":
		sortField = "createdAt"
	case "hourlyRate":
		sortField = "hourlyRate"
	}
	sortDir := 1
	if filter.SortDesc {
		sortDir = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortDir}, {Key: "startTime", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var slots []models.AvailabilitySlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, 0, err
	}
	return slots, total, nil
}
