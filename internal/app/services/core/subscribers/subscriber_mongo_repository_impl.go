package subscribers

import (
	"context"
	"log"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubscriberMongoRepository struct {
	Collection *mongo.Collection
}

func NewSubscriberMongoRepository(db *mongo.Client, dbName string) contracts.SubscriberRepository {
	collection := db.Database(dbName).Collection(constvars.MongoCollectionSubscribers)

	// Registration idempotency relies on phone uniqueness at the store level;
	// Create maps the resulting duplicate-key error to a conflict.
	_, err := collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Fatalf("Failed to create unique phone index on subscribers: %s", err.Error())
	}

	return &SubscriberMongoRepository{
		Collection: collection,
	}
}

func (r *SubscriberMongoRepository) FindByPhone(ctx context.Context, phone string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.Collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&subscriber)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &subscriber, nil
}

func (r *SubscriberMongoRepository) FindByID(ctx context.Context, id string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&subscriber)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &subscriber, nil
}

func (r *SubscriberMongoRepository) Create(ctx context.Context, subscriber *models.Subscriber) (string, error) {
	if subscriber.ID == "" {
		subscriber.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now()
	subscriber.CreatedAt = now
	subscriber.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, subscriber)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", exceptions.ErrSubscriberAlreadyExists(err)
		}
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return subscriber.ID, nil
}

func (r *SubscriberMongoRepository) UpdateLanguage(ctx context.Context, id, language string) error {
	update := bson.M{"$set": bson.M{"language": language, "updatedAt": time.Now()}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *SubscriberMongoRepository) IncrementConsultationCount(ctx context.Context, id string) error {
	update := bson.M{
		"$inc": bson.M{"consultationCount": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *SubscriberMongoRepository) AddBalance(ctx context.Context, id string, amount float64) error {
	update := bson.M{
		"$inc": bson.M{"balance": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *SubscriberMongoRepository) DebitBalanceIfSufficient(ctx context.Context, id string, amount float64) (bool, error) {
	filter := bson.M{
		"_id":     id,
		"balance": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"balance": -amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount == 1, nil
}
