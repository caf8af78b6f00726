package contact

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	InsertMessage(ctx context.Context, msg Message) error
	ListMessages(ctx context.Context, filter ListFilter, limit, skip int64) ([]Message, error)
	CountMessages(ctx context.Context, filter ListFilter) (int64, error)
	GetMessage(ctx context.Context, id string) (Message, error)
	UpdateMessage(ctx context.Context, id string, set bson.M) (Message, error)
	ActiveInfo(ctx context.Context) (Info, error)
}

type MongoRepository struct {
	messages *mongo.Collection
	info     *mongo.Collection
}

func NewRepository(messages, info *mongo.Collection) *MongoRepository {
	return &MongoRepository{messages: messages, info: info}
}

func (r *MongoRepository) InsertMessage(ctx context.Context, msg Message) error {
	_, err := r.messages.InsertOne(ctx, msg)
	return err
}

func (r *MongoRepository) ListMessages(ctx context.Context, filter ListFilter, limit, skip int64) ([]Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "metadata.createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := r.messages.Find(ctx, r.filterToBSON(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Message, 0)
	for cursor.Next(ctx) {
		var msg Message
		if err := cursor.Decode(&msg); err != nil {
			return nil, err
		}
		items = append(items, msg)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) CountMessages(ctx context.Context, filter ListFilter) (int64, error) {
	return r.messages.CountDocuments(ctx, r.filterToBSON(filter))
}

func (r *MongoRepository) GetMessage(ctx context.Context, id string) (Message, error) {
	var msg Message
	if err := r.messages.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

func (r *MongoRepository) UpdateMessage(ctx context.Context, id string, set bson.M) (Message, error) {
	set["metadata.updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Message
	if err := r.messages.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Message{}, err
	}
	return updated, nil
}

func (r *MongoRepository) ActiveInfo(ctx context.Context) (Info, error) {
	var info Info
	if err := r.info.FindOne(ctx, bson.M{"isActive": true}).Decode(&info); err != nil {
		return Info{}, err
	}
	return info, nil
}

func (r *MongoRepository) filterToBSON(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.ServiceType != "" {
		query["serviceType"] = filter.ServiceType
	}
	if filter.Search != "" {
		// Escaped so user input never becomes a regex operator in the query.
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"fullName": pattern},
			bson.M{"email": pattern},
			bson.M{"company": pattern},
			bson.M{"subject": pattern},
			bson.M{"message": pattern},
		}
	}
	return query
}
