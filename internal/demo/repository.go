package demo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, rec Record) error
	List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Record, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	GetByID(ctx context.Context, id string) (Record, error)
	UpdateStatus(ctx context.Context, id string, fields bson.M, now time.Time) (Record, error)
	Reschedule(ctx context.Context, id string, date time.Time, slot string, now time.Time) (Record, error)
	AppendNote(ctx context.Context, id string, note Note, now time.Time) (Record, error)
	SetNotificationFlag(ctx context.Context, id, flag string, now time.Time) error
	Delete(ctx context.Context, id string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, rec Record) error {
	_, err := r.col.InsertOne(ctx, rec)
	return err
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]Record, error) {
	query := r.filterToBSON(filter)
	opts := options.Find().
		SetSort(bson.D{{Key: "demoDetails.preferredDate", Value: 1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Record, 0)
	for cursor.Next(ctx) {
		var rec Record
		if err := cursor.Decode(&rec); err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, r.filterToBSON(filter))
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Record, error) {
	var rec Record
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, fields bson.M, now time.Time) (Record, error) {
	set := bson.M{"metadata.updatedAt": now}
	for key, value := range fields {
		set[key] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Record
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Record{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Reschedule(ctx context.Context, id string, date time.Time, slot string, now time.Time) (Record, error) {
	update := bson.M{
		"$set": bson.M{
			"demoDetails.preferredDate": date,
			"demoDetails.preferredTime": slot,
			"status.current":            StatusRescheduled,
			"metadata.updatedAt":        now,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Record
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Record{}, err
	}
	return updated, nil
}

func (r *MongoRepository) AppendNote(ctx context.Context, id string, note Note, now time.Time) (Record, error) {
	update := bson.M{
		"$push": bson.M{"followUp.notes": note},
		"$set":  bson.M{"metadata.updatedAt": now},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Record
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return Record{}, err
	}
	return updated, nil
}

func (r *MongoRepository) SetNotificationFlag(ctx context.Context, id, flag string, now time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"status." + flag:     true,
			"metadata.updatedAt": now,
		},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) filterToBSON(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status.current"] = filter.Status
	}
	if filter.Industry != "" {
		query["company.industry"] = filter.Industry
	}
	if filter.DemoType != "" {
		query["demoDetails.demoType"] = filter.DemoType
	}
	dateRange := bson.M{}
	if !filter.DateFrom.IsZero() {
		dateRange["$gte"] = filter.DateFrom
	}
	if !filter.DateTo.IsZero() {
		dateRange["$lte"] = filter.DateTo
	}
	if len(dateRange) > 0 {
		query["demoDetails.preferredDate"] = dateRange
	}
	return query
}
