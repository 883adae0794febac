// Package memory is an in-process implementation of the repositories, used
// in development mode and by tests. All mutations run under one lock, so each
// conditional update is atomic the same way a single MongoDB document write is.
package memory

import (
	"fmt"
	"sync"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection in maps keyed by id.
type Store struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]*domain.User
	courses  map[primitive.ObjectID]*domain.Course
	workouts map[primitive.ObjectID]*domain.Workout
	meals    map[primitive.ObjectID]*domain.Meal
	uploads  map[primitive.ObjectID]*domain.MediaUpload
}

func NewStore() *Store {
	return &Store{
		users:    make(map[primitive.ObjectID]*domain.User),
		courses:  make(map[primitive.ObjectID]*domain.Course),
		workouts: make(map[primitive.ObjectID]*domain.Workout),
		meals:    make(map[primitive.ObjectID]*domain.Meal),
		uploads:  make(map[primitive.ObjectID]*domain.MediaUpload),
	}
}

// Repositories returns repository views sharing this store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:    &userRepository{s},
		Courses:  &courseRepository{s},
		Workouts: &workoutRepository{s},
		Meals:    &mealRepository{s},
		Uploads:  &uploadRepository{s},
	}
}

// clone deep-copies a document through its BSON form so callers never share
// memory with the store. Times are truncated to milliseconds like MongoDB does.
func clone[T any](src *T) *T {
	raw, err := bson.Marshal(src)
	if err != nil {
		panic(fmt.Sprintf("memory store: marshal %T: %v", src, err))
	}
	var dst T
	if err := bson.Unmarshal(raw, &dst); err != nil {
		panic(fmt.Sprintf("memory store: unmarshal %T: %v", src, err))
	}
	return &dst
}
