package user

import (
	"context"
	"regexp"
	"time"

	"marketingai-backend/internal/demo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, id string, set bson.M) (User, error)
	List(ctx context.Context, filter ListFilter, limit, skip int64) ([]User, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	StaffSummaries(ctx context.Context, ids []string) (map[string]demo.StaffSummary, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, u User) error {
	_, err := r.col.InsertOne(ctx, u)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (User, error) {
	var u User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	var u User
	if err := r.col.FindOne(ctx, bson.M{"auth.email": email}).Decode(&u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (User, error) {
	set["metadata.updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return User{}, err
	}
	return updated, nil
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, skip int64) ([]User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "metadata.createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := r.col.Find(ctx, r.filterToBSON(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]User, 0)
	for cursor.Next(ctx) {
		var u User
		if err := cursor.Decode(&u); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, r.filterToBSON(filter))
}

// StaffSummaries resolves assignedTo references for demo responses. Unknown
// ids are simply absent from the result, never an error.
func (r *MongoRepository) StaffSummaries(ctx context.Context, ids []string) (map[string]demo.StaffSummary, error) {
	out := make(map[string]demo.StaffSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{
		"personalInfo.firstName":   1,
		"personalInfo.lastName":    1,
		"personalInfo.displayName": 1,
		"auth.email":               1,
	})
	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var u User
		if err := cursor.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = demo.StaffSummary{
			ID:    u.ID,
			Name:  u.FullName(),
			Email: u.Auth.Email,
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *MongoRepository) filterToBSON(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.UserType != "" {
		query["personalInfo.userType"] = filter.UserType
	}
	if filter.Search != "" {
		// Escaped so user input never becomes a regex operator in the query.
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"personalInfo.firstName": pattern},
			bson.M{"personalInfo.lastName": pattern},
			bson.M{"auth.email": pattern},
			bson.M{"business.companyName": pattern},
		}
	}
	return query
}
