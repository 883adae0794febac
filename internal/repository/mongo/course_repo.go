package mongo

import (
	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const courseCollectionName = "courses"

// mongoCourseRepository implements repository.CourseRepository
type mongoCourseRepository struct {
	collection *mongo.Collection
}

// NewMongoCourseRepository creates a new Course repository backed by MongoDB.
func NewMongoCourseRepository(db *mongo.Database) repository.CourseRepository {
	return &mongoCourseRepository{
		collection: db.Collection(courseCollectionName),
	}
}

// Create inserts a new course. Interaction collections start empty.
func (r *mongoCourseRepository) Create(ctx context.Context, course *domain.Course) (primitive.ObjectID, error) {
	if course.Title == "" || course.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("course title and trainer ID are required")
	}

	course.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	course.AssignLessonIDs()
	normalizeCollections(course)

	result, err := r.collection.InsertOne(ctx, course)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert course: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// Arrays are stored as [] rather than null so $push and $size always work.
func normalizeCollections(course *domain.Course) {
	if course.Lessons == nil {
		course.Lessons = []domain.Lesson{}
	}
	if course.Enrollments == nil {
		course.Enrollments = []domain.Enrollment{}
	}
	if course.Reviews == nil {
		course.Reviews = []domain.Review{}
	}
	if course.Likes == nil {
		course.Likes = []domain.Like{}
	}
}

// GetByID retrieves a course by its ID.
func (r *mongoCourseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error) {
	var course domain.Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// GetByTrainerID retrieves all courses created by a specific trainer, oldest first.
func (r *mongoCourseRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Course, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"trainer": trainerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	courses := []domain.Course{}
	if err = cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func courseQuery(filter repository.CourseFilter) bson.M {
	query := bson.M{}
	if filter.RestrictTrainers {
		ids := filter.TrainerIDs
		if ids == nil {
			ids = []primitive.ObjectID{}
		}
		query["trainer"] = bson.M{"$in": ids}
	}
	if filter.IsPublished != nil {
		query["isPublished"] = *filter.IsPublished
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	return query
}

// List returns one page of courses matching the filter plus the total match count.
func (r *mongoCourseRepository) List(ctx context.Context, filter repository.CourseFilter) ([]domain.Course, int64, error) {
	query := courseQuery(filter)

	sortField := filter.SortBy
	if sortField == "" {
		sortField = repository.SortByCreatedAt
	}
	direction := 1
	if filter.SortDesc {
		direction = -1
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: sortField, Value: direction}, {Key: "_id", Value: direction}}).
		SetSkip(filter.Skip)
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	courses := []domain.Course{}
	if err = cursor.All(ctx, &courses); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// Update modifies the trainer-editable fields of a course.
// Enrollments, reviews and likes are never touched here.
func (r *mongoCourseRepository) Update(ctx context.Context, course *domain.Course) error {
	if course.ID == primitive.NilObjectID {
		return errors.New("course ID is required for update")
	}
	course.AssignLessonIDs()
	if course.Lessons == nil {
		course.Lessons = []domain.Lesson{}
	}
	course.UpdatedAt = time.Now().UTC()

	// Prevent changing the owner during a simple update
	filter := bson.M{"_id": course.ID, "trainer": course.TrainerID}
	update := bson.M{
		"$set": bson.M{
			"title":         course.Title,
			"description":   course.Description,
			"price":         course.Price,
			"coverImageUrl": course.CoverImageURL,
			"isPublished":   course.IsPublished,
			"lessons":       course.Lessons,
			"updatedAt":     course.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a course, ensuring the trainer owns it.
func (r *mongoCourseRepository) Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "trainer": trainerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// conditionalPush applies a guarded $push. The guard and the append run as
// one single-document update, so concurrent duplicates cannot both match.
func (r *mongoCourseRepository) conditionalPush(ctx context.Context, filter bson.M, field string, value interface{}) error {
	update := bson.M{
		"$push": bson.M{field: value},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrConditionFailed
	}
	return nil
}

func (r *mongoCourseRepository) AddEnrollment(ctx context.Context, courseID primitive.ObjectID, enrollment domain.Enrollment) error {
	filter := bson.M{
		"_id":              courseID,
		"isPublished":      true,
		"enrollments.user": bson.M{"$ne": enrollment.UserID},
	}
	return r.conditionalPush(ctx, filter, "enrollments", enrollment)
}

// SetEnrollmentStatus updates the matched enrollment through the positional operator.
func (r *mongoCourseRepository) SetEnrollmentStatus(ctx context.Context, courseID, userID primitive.ObjectID, status domain.CompletionStatus) error {
	filter := bson.M{"_id": courseID, "enrollments.user": userID}
	update := bson.M{
		"$set": bson.M{
			"enrollments.$.completionStatus": status,
			"updatedAt":                      time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoCourseRepository) AddReview(ctx context.Context, courseID primitive.ObjectID, review domain.Review) error {
	filter := bson.M{
		"_id":          courseID,
		"reviews.user": bson.M{"$ne": review.UserID},
	}
	return r.conditionalPush(ctx, filter, "reviews", review)
}

func (r *mongoCourseRepository) AddLike(ctx context.Context, courseID primitive.ObjectID, like domain.Like) error {
	filter := bson.M{
		"_id":        courseID,
		"likes.user": bson.M{"$ne": like.UserID},
	}
	return r.conditionalPush(ctx, filter, "likes", like)
}

func (r *mongoCourseRepository) RemoveLike(ctx context.Context, courseID, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": courseID, "likes.user": userID}
	update := bson.M{
		"$pull": bson.M{"likes": bson.M{"user": userID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// EnsureCourseIndexes creates necessary indexes for the courses collection.
func EnsureCourseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainer", Value: 1}}},
		{Keys: bson.D{{Key: "enrollments.user", Value: 1}}},
		{Keys: bson.D{{Key: "reviews.user", Value: 1}}},
		{Keys: bson.D{{Key: "likes.user", Value: 1}}},
		{Keys: bson.D{{Key: "isPublished", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
