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

const mealCollectionName = "meals"

type mongoMealRepository struct {
	collection *mongo.Collection
}

// NewMongoMealRepository creates a new Meal repository backed by MongoDB.
func NewMongoMealRepository(db *mongo.Database) repository.MealRepository {
	return &mongoMealRepository{
		collection: db.Collection(mealCollectionName),
	}
}

// Create inserts a meal with freshly computed totals.
func (r *mongoMealRepository) Create(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error) {
	if meal.UserID == primitive.NilObjectID || meal.Type == "" {
		return primitive.NilObjectID, errors.New("meal user ID and type are required")
	}

	meal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	meal.CreatedAt = now
	meal.UpdatedAt = now
	if meal.Date.IsZero() {
		meal.Date = now
	}
	if meal.Foods == nil {
		meal.Foods = []domain.FoodItem{}
	}
	meal.RecalculateTotals()

	result, err := r.collection.InsertOne(ctx, meal)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert meal: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoMealRepository) GetByIDForUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Meal, error) {
	var meal domain.Meal
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user": userID}).Decode(&meal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &meal, nil
}

func (r *mongoMealRepository) List(ctx context.Context, filter repository.MealFilter) ([]domain.Meal, error) {
	query := bson.M{"user": filter.UserID}
	date := bson.M{}
	if !filter.From.IsZero() {
		date["$gte"] = filter.From
	}
	if !filter.To.IsZero() {
		date["$lte"] = filter.To
	}
	if len(date) > 0 {
		query["date"] = date
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	meals := []domain.Meal{}
	if err = cursor.All(ctx, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

// Update rewrites a meal owned by meal.UserID. Totals are recomputed in the
// same write so no reader can observe stale values.
func (r *mongoMealRepository) Update(ctx context.Context, meal *domain.Meal) error {
	if meal.ID == primitive.NilObjectID {
		return errors.New("meal ID is required for update")
	}
	if meal.Foods == nil {
		meal.Foods = []domain.FoodItem{}
	}
	meal.RecalculateTotals()
	meal.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": meal.ID, "user": meal.UserID}
	update := bson.M{
		"$set": bson.M{
			"type":          meal.Type,
			"date":          meal.Date,
			"foods":         meal.Foods,
			"notes":         meal.Notes,
			"totalCalories": meal.TotalCalories,
			"totalProtein":  meal.TotalProtein,
			"totalCarbs":    meal.TotalCarbs,
			"totalFat":      meal.TotalFat,
			"updatedAt":     meal.UpdatedAt,
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

func (r *mongoMealRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMealIndexes creates necessary indexes for the meals collection.
func EnsureMealIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "type", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
