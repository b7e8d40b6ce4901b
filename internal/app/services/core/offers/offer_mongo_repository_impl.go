package offers

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OfferMongoRepository struct {
	Collection *mongo.Collection
}

func NewOfferMongoRepository(db *mongo.Client, dbName string) contracts.OfferRepository {
	return &OfferMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionOffers),
	}
}

func (r *OfferMongoRepository) Create(ctx context.Context, offer *models.Offer) (string, error) {
	if offer.ID == "" {
		offer.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now()
	offer.CreatedAt = now
	offer.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, offer)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return offer.ID, nil
}

func (r *OfferMongoRepository) GetActiveBySubscriber(ctx context.Context, subscriberID string) ([]models.Offer, error) {
	filter := bson.M{
		"subscriberId": subscriberID,
		"applied":      false,
		"expiryDate":   bson.M{"$gt": time.Now()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var offers []models.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return offers, nil
}

func (r *OfferMongoRepository) ApplyIfUnapplied(ctx context.Context, offerID string) (bool, error) {
	filter := bson.M{"_id": offerID, "applied": false}
	update := bson.M{"$set": bson.M{"applied": true, "updatedAt": time.Now()}}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *OfferMongoRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	filter := bson.M{
		"applied":    false,
		"expiryDate": bson.M{"$lt": now},
	}
	result, err := r.Collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, exceptions.ErrMongoDBDeleteDocument(err)
	}
	return int(result.DeletedCount), nil
}
