package memory

import (
	"context"
	"errors"
	"slices"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.Username == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user username, email, password hash, and role are required")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	for _, u := range r.s.users {
		if u.Email == email || u.Username == user.Username {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}

	user.ID = primitive.NewObjectID()
	user.Email = email
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.RegistrationDate.IsZero() {
		user.RegistrationDate = now
	}
	r.s.users[user.ID] = clone(user)
	return user.ID, nil
}

func (r *userRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(u), nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *userRepository) GetTrainerIDsBySpecialization(_ context.Context, specialization string) ([]primitive.ObjectID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := []primitive.ObjectID{}
	for _, u := range r.s.users {
		if u.Role == domain.RoleTrainer && slices.Contains(u.Specialization, specialization) {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (r *userRepository) UpdateProfile(_ context.Context, id primitive.ObjectID, profile domain.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Profile = *clone(&profile)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *userRepository) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}
