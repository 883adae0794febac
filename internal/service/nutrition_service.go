package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealInput carries meal fields. On update nil fields are kept.
type MealInput struct {
	Type  *domain.MealType
	Date  *time.Time
	Foods []domain.FoodItem
	Notes *string
}

// MealQuery filters a meal listing. Each date bound applies on its own.
type MealQuery struct {
	From *time.Time
	To   *time.Time
	Type domain.MealType
}

// NutritionStats summarises the meals of a period.
type NutritionStats struct {
	TotalMeals    int                     `json:"totalMeals"`
	TotalCalories float64                 `json:"totalCalories"`
	TotalProtein  float64                 `json:"totalProtein"`
	TotalCarbs    float64                 `json:"totalCarbs"`
	TotalFat      float64                 `json:"totalFat"`
	MealsByType   map[domain.MealType]int `json:"mealsByType"`
}

func validMealType(t domain.MealType) bool {
	for _, known := range domain.MealTypes {
		if t == known {
			return true
		}
	}
	return false
}

func validServingUnit(unit string) bool {
	for _, known := range domain.ServingUnits {
		if unit == known {
			return true
		}
	}
	return false
}

func (in MealInput) validate() error {
	if in.Type != nil && !validMealType(*in.Type) {
		return Validationf("meal type must be one of breakfast, lunch, dinner, snack")
	}
	for _, f := range in.Foods {
		if strings.TrimSpace(f.Name) == "" {
			return Validationf("food name cannot be empty")
		}
		if f.Calories < 0 || f.Protein < 0 || f.Carbs < 0 || f.Fat < 0 || f.ServingSize < 0 {
			return Validationf("food %q has negative values", f.Name)
		}
		if !validServingUnit(f.ServingUnit) {
			return Validationf("food %q serving unit must be one of g, ml, pcs", f.Name)
		}
	}
	return nil
}

func (q MealQuery) filter(userID primitive.ObjectID) (repository.MealFilter, error) {
	f := repository.MealFilter{UserID: userID, Type: q.Type}
	if q.Type != "" && !validMealType(q.Type) {
		return f, Validationf("meal type must be one of breakfast, lunch, dinner, snack")
	}
	if q.From != nil {
		f.From = q.From.UTC()
	}
	if q.To != nil {
		f.To = q.To.UTC()
	}
	if q.From != nil && q.To != nil && f.To.Before(f.From) {
		return f, Validationf("endDate must not be before startDate")
	}
	return f, nil
}

type NutritionService interface {
	CreateMeal(ctx context.Context, caller domain.Identity, input MealInput) (*domain.Meal, error)
	ListMeals(ctx context.Context, caller domain.Identity, query MealQuery) ([]domain.Meal, error)
	GetMeal(ctx context.Context, caller domain.Identity, mealID primitive.ObjectID) (*domain.Meal, error)
	UpdateMeal(ctx context.Context, caller domain.Identity, mealID primitive.ObjectID, input MealInput) (*domain.Meal, error)
	DeleteMeal(ctx context.Context, caller domain.Identity, mealID primitive.ObjectID) error
	NutritionStats(ctx context.Context, caller domain.Identity, query MealQuery) (*NutritionStats, error)
}

type nutritionService struct {
	mealRepo repository.MealRepository
	now      func() time.Time
}

func NewNutritionService(mealRepo repository.MealRepository) NutritionService {
	return &nutritionService{
		mealRepo: mealRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateMeal logs a meal; its totals are derived from the foods.
func (s *nutritionService) CreateMeal(ctx context.Context, caller domain.Identity, input MealInput) (*domain.Meal, error) {
	if !caller.Can(domain.CapTrackFitness) {
		return nil, ErrCapabilityDenied
	}
	if input.Type == nil {
		return nil, Validationf("meal type is required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	meal := &domain.Meal{
		UserID: caller.UserID,
		Type:   *input.Type,
		Date:   s.now(),
		Foods:  []domain.FoodItem{},
	}
	if input.Date != nil {
		meal.Date = input.Date.UTC()
	}
	if input.Foods != nil {
		meal.Foods = input.Foods
	}
	if input.Notes != nil {
		meal.Notes = *input.Notes
	}
	meal.RecalculateTotals()

	if _, err := s.mealRepo.Create(ctx, meal); err != nil {
		return nil, internalError("failed to create meal", err)
	}
	return meal, nil
}

func (s *nutritionService) ListMeals(ctx context.Context, caller domain.Identity, query MealQuery) ([]domain.Meal, error) {
	if !caller.Can(domain.CapTrackFitness) {
		return nil, ErrCapabilityDenied
	}
	filter, err := query.filter(caller.UserID)
	if err != nil {
		return nil, err
	}
	meals, err := s.mealRepo.List(ctx, filter)
	if err != nil {
		return nil, internalError("failed to list meals", err)
	}
	return meals, nil
}

func (s *nutritionService) GetMeal(ctx context.Context, caller domain.Identity, mealID primitive.ObjectID) (*domain.Meal, error) {
	if !caller.Can(domain.CapTrackFitness) {
		return nil, ErrCapabilityDenied
	}
	meal, err := s.mealRepo.GetByIDForUser(ctx, mealID, caller.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, internalError("failed to load meal", err)
	}
	return meal, nil
}

// UpdateMeal changes type, foods and notes; totals are recomputed before the write.
func (s *nutritionService) UpdateMeal(ctx context.Context, caller domain.Identity, mealID primitive.ObjectID, input MealInput) (*domain.Meal, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	meal, err := s.GetMeal(ctx, caller, mealID)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		meal.Type = *input.Type
	}
	if input.Foods != nil {
		meal.Foods = input.Foods
	}
	if input.Notes != nil {
		meal.Notes = *input.Notes
	}
	meal.RecalculateTotals()

	if err := s.mealRepo.Update(ctx, meal); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, internalError("failed to update meal", err)
	}
	return meal, nil
}

func (s *nutritionService) DeleteMeal(ctx context.Context, caller domain.Identity, mealID primitive.ObjectID) error {
	if !caller.Can(domain.CapTrackFitness) {
		return ErrCapabilityDenied
	}
	if err := s.mealRepo.Delete(ctx, mealID, caller.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMealNotFound
		}
		return internalError("failed to delete meal", err)
	}
	return nil
}

// NutritionStats sums the stored totals of the caller's meals in the range.
func (s *nutritionService) NutritionStats(ctx context.Context, caller domain.Identity, query MealQuery) (*NutritionStats, error) {
	query.Type = ""
	meals, err := s.ListMeals(ctx, caller, query)
	if err != nil {
		return nil, err
	}
	return SummariseMeals(meals), nil
}

// SummariseMeals totals meals and counts them per type. Every type is present.
func SummariseMeals(meals []domain.Meal) *NutritionStats {
	stats := &NutritionStats{
		TotalMeals:  len(meals),
		MealsByType: make(map[domain.MealType]int, len(domain.MealTypes)),
	}
	for _, t := range domain.MealTypes {
		stats.MealsByType[t] = 0
	}
	for _, m := range meals {
		stats.TotalCalories += m.TotalCalories
		stats.TotalProtein += m.TotalProtein
		stats.TotalCarbs += m.TotalCarbs
		stats.TotalFat += m.TotalFat
		stats.MealsByType[m.Type]++
	}
	return stats
}
