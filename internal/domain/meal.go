package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists every meal type in a fixed order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// Serving units of a food item.
const (
	UnitGrams       = "g"
	UnitMilliliters = "ml"
	UnitPieces      = "pcs"
)

var ServingUnits = []string{UnitGrams, UnitMilliliters, UnitPieces}

type FoodItem struct {
	Name        string  `bson:"name" json:"name"`
	Calories    float64 `bson:"calories" json:"calories"`
	Protein     float64 `bson:"protein" json:"protein"` // grams
	Carbs       float64 `bson:"carbs" json:"carbs"`     // grams
	Fat         float64 `bson:"fat" json:"fat"`         // grams
	ServingSize float64 `bson:"servingSize" json:"servingSize"`
	ServingUnit string  `bson:"servingUnit" json:"servingUnit"` // g, ml or pcs
}

// Meal is a logged eating occasion. The Total* fields are derived from Foods
// and must be refreshed with RecalculateTotals before every write.
type Meal struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user" json:"user"`
	Type          MealType           `bson:"type" json:"type"`
	Date          time.Time          `bson:"date" json:"date"`
	Foods         []FoodItem         `bson:"foods" json:"foods"`
	TotalCalories float64            `bson:"totalCalories" json:"totalCalories"`
	TotalProtein  float64            `bson:"totalProtein" json:"totalProtein"`
	TotalCarbs    float64            `bson:"totalCarbs" json:"totalCarbs"`
	TotalFat      float64            `bson:"totalFat" json:"totalFat"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RecalculateTotals sets the four totals to the sums over Foods.
func (m *Meal) RecalculateTotals() {
	var cal, protein, carbs, fat float64
	for _, f := range m.Foods {
		cal += f.Calories
		protein += f.Protein
		carbs += f.Carbs
		fat += f.Fat
	}
	m.TotalCalories = cal
	m.TotalProtein = protein
	m.TotalCarbs = carbs
	m.TotalFat = fat
}
