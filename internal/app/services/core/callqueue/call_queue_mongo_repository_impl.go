package callqueue

import (
	"context"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CallQueueMongoRepository struct {
	Collection *mongo.Collection
}

func NewCallQueueMongoRepository(db *mongo.Client, dbName string) contracts.CallQueueRepository {
	return &CallQueueMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionCallQueue),
	}
}

func (r *CallQueueMongoRepository) Create(ctx context.Context, entry *models.CallQueueEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}
	if entry.Status == "" {
		entry.Status = models.CallQueuePending
	}
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, entry)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return entry.ID, nil
}

func (r *CallQueueMongoRepository) FindByID(ctx context.Context, id string) (*models.CallQueueEntry, error) {
	var entry models.CallQueueEntry
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &entry, nil
}

func (r *CallQueueMongoRepository) FindByCallSessionID(ctx context.Context, callSessionID string) (*models.CallQueueEntry, error) {
	var entry models.CallQueueEntry
	err := r.Collection.FindOne(ctx, bson.M{"callSessionId": callSessionID}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &entry, nil
}

// AcceptIfPending transitions pending to accepted with a single conditional
// update so a racing timeout or reject cannot overwrite the decision.
func (r *CallQueueMongoRepository) AcceptIfPending(ctx context.Context, id, doctorPhone string) (bool, error) {
	now := time.Now()
	filter := bson.M{"_id": id, "status": models.CallQueuePending}
	update := bson.M{"$set": bson.M{
		"status":      models.CallQueueAccepted,
		"doctorPhone": doctorPhone,
		"acceptedAt":  now,
		"updatedAt":   now,
	}}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *CallQueueMongoRepository) RejectIfPending(ctx context.Context, id, reason string) (bool, error) {
	now := time.Now()
	filter := bson.M{"_id": id, "status": models.CallQueuePending}
	update := bson.M{"$set": bson.M{
		"status":          models.CallQueueRejected,
		"rejectionReason": reason,
		"rejectedAt":      now,
		"updatedAt":       now,
	}}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *CallQueueMongoRepository) Complete(ctx context.Context, id string, durationSeconds int) error {
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":          models.CallQueueCompleted,
		"durationSeconds": durationSeconds,
		"completedAt":     now,
		"updatedAt":       now,
	}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *CallQueueMongoRepository) TimeoutPending(ctx context.Context, olderThan time.Time) (int, error) {
	filter := bson.M{
		"status":    models.CallQueuePending,
		"createdAt": bson.M{"$lt": olderThan},
	}
	update := bson.M{"$set": bson.M{
		"status":    models.CallQueueTimeout,
		"updatedAt": time.Now(),
	}}

	result, err := r.Collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return int(result.ModifiedCount), nil
}
