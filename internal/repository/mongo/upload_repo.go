package mongo

import (
	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const uploadCollectionName = "uploads"

// mongoUploadRepository implements repository.UploadRepository
type mongoUploadRepository struct {
	collection *mongo.Collection
}

// NewMongoUploadRepository creates a new Upload repository backed by MongoDB.
func NewMongoUploadRepository(db *mongo.Database) repository.UploadRepository {
	return &mongoUploadRepository{
		collection: db.Collection(uploadCollectionName),
	}
}

// Create inserts new upload metadata into the database.
func (r *mongoUploadRepository) Create(ctx context.Context, upload *domain.MediaUpload) (primitive.ObjectID, error) {
	if upload.CourseID == primitive.NilObjectID ||
		upload.TrainerID == primitive.NilObjectID ||
		upload.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("upload requires courseId, trainerId, and s3ObjectKey")
	}

	upload.ID = primitive.NewObjectID()
	upload.UploadedAt = time.Now().UTC() // Set the upload timestamp

	result, err := r.collection.InsertOne(ctx, upload)
	if err != nil {
		// s3ObjectKey is unique: confirming the same object twice is a duplicate
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves upload metadata by its ID.
func (r *mongoUploadRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MediaUpload, error) {
	var upload domain.MediaUpload
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&upload)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &upload, nil
}

// ListByCourseID returns a course's uploads, newest first.
func (r *mongoUploadRepository) ListByCourseID(ctx context.Context, courseID primitive.ObjectID) ([]domain.MediaUpload, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"courseId": courseID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	uploads := []domain.MediaUpload{}
	if err = cursor.All(ctx, &uploads); err != nil {
		return nil, err
	}
	return uploads, nil
}

func (r *mongoUploadRepository) DeleteByCourseID(ctx context.Context, courseID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"courseId": courseID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureUploadIndexes creates necessary indexes for the uploads collection.
func EnsureUploadIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "courseId", Value: 1}, {Key: "uploadedAt", Value: -1}},
		},
		{
			// S3 keys are unique within the bucket
			Keys:    bson.D{{Key: "s3ObjectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
