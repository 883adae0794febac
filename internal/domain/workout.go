package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutType classifies a workout session.
type WorkoutType string

const (
	WorkoutStrength    WorkoutType = "strength"
	WorkoutCardio      WorkoutType = "cardio"
	WorkoutFlexibility WorkoutType = "flexibility"
	WorkoutHIIT        WorkoutType = "hiit"
	WorkoutOther       WorkoutType = "other"
)

type Exercise struct {
	Name     string  `bson:"name" json:"name"`
	Sets     int     `bson:"sets" json:"sets"`
	Reps     int     `bson:"reps" json:"reps"`
	Weight   float64 `bson:"weight" json:"weight"`     // kg
	Duration int     `bson:"duration" json:"duration"` // seconds
	Notes    string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Workout represents a single training session logged by a user.
type Workout struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name" json:"name"`
	Type      WorkoutType        `bson:"type" json:"type"`
	Exercises []Exercise         `bson:"exercises" json:"exercises"`
	Duration  int                `bson:"duration" json:"duration"` // minutes
	Date      time.Time          `bson:"date" json:"date"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Completed bool               `bson:"completed" json:"completed"`
	Rating    *int               `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
