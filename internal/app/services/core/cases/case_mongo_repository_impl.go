package cases

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

type CaseMongoRepository struct {
	Collection *mongo.Collection
}

func NewCaseMongoRepository(db *mongo.Client, dbName string) contracts.CaseRepository {
	return &CaseMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionCases),
	}
}

func (r *CaseMongoRepository) Create(ctx context.Context, c *models.Case) (string, error) {
	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, c)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return c.ID, nil
}

func (r *CaseMongoRepository) FindByID(ctx context.Context, id string) (*models.Case, error) {
	var c models.Case
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &c, nil
}

func (r *CaseMongoRepository) AssignToDoctor(ctx context.Context, caseID, doctorID string) error {
	update := bson.M{"$set": bson.M{
		"doctorId":  doctorID,
		"status":    models.CaseAssigned,
		"updatedAt": time.Now(),
	}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": caseID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *CaseMongoRepository) UpdateStatus(ctx context.Context, caseID string, status models.CaseStatus) error {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if status == models.CaseCompleted {
		now := time.Now()
		set["completedAt"] = now
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": caseID}, bson.M{"$set": set})
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *CaseMongoRepository) UpdateSymptoms(ctx context.Context, caseID, symptoms string) error {
	update := bson.M{"$set": bson.M{"symptoms": symptoms, "updatedAt": time.Now()}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": caseID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *CaseMongoRepository) SetRecording(ctx context.Context, caseID, recordingURL string) error {
	update := bson.M{"$set": bson.M{"recordingUrl": recordingURL, "updatedAt": time.Now()}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": caseID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *CaseMongoRepository) SetRecordingObjectKey(ctx context.Context, caseID, objectKey string) error {
	update := bson.M{"$set": bson.M{"recordingObjectKey": objectKey, "updatedAt": time.Now()}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": caseID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *CaseMongoRepository) GetBySubscriber(ctx context.Context, subscriberID string, limit int) ([]models.Case, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.Collection.Find(ctx, bson.M{"subscriberId": subscriberID}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var cases []models.Case
	if err := cursor.All(ctx, &cases); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return cases, nil
}

func (r *CaseMongoRepository) CountActiveByDoctor(ctx context.Context, doctorID string) (int, error) {
	filter := bson.M{
		"doctorId": doctorID,
		"status":   bson.M{"$in": []models.CaseStatus{models.CaseAssigned, models.CaseInProgress}},
	}
	count, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, exceptions.ErrMongoDBFindDocument(err)
	}
	return int(count), nil
}

func (r *CaseMongoRepository) CancelStaleProvisional(ctx context.Context, olderThan time.Time) (int, error) {
	// A provisional case is assigned to its doctor at creation, so the sweep
	// must match assigned as well as pending.
	filter := bson.M{
		"symptoms":  models.ProvisionalSymptoms,
		"status":    bson.M{"$in": []models.CaseStatus{models.CasePending, models.CaseAssigned}},
		"createdAt": bson.M{"$lt": olderThan},
	}
	update := bson.M{"$set": bson.M{"status": models.CaseCancelled, "updatedAt": time.Now()}}

	result, err := r.Collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return int(result.ModifiedCount), nil
}
