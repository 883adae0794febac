package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"alcyxob/fit-platform/internal/repository"

	"github.com/avast/retry-go/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// Options configure how Open reaches the server.
type Options struct {
	URI      string
	Database string
	Attempts uint
	Delay    time.Duration
	Logger   *slog.Logger
}

// Store owns the MongoDB client for the lifetime of the process.
// It is opened once at startup and handed to every repository.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to MongoDB, retrying with backoff until the server answers a ping.
func Open(ctx context.Context, opts Options) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	attempts := opts.Attempts
	if attempts == 0 {
		attempts = 1
	}

	var client *mongo.Client
	err := retry.Do(
		func() error {
			c, err := connect(ctx, opts.URI)
			if err != nil {
				return err
			}
			client = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(opts.Delay),
		retry.MaxDelay(30*time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("mongodb connection attempt failed",
				slog.Uint64("attempt", uint64(n+1)),
				slog.Any("error", err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(opts.Database)}, nil
}

func connect(ctx context.Context, uri string) (*mongo.Client, error) {
	// Set context with timeout for the connection attempt
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection.
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}
	return client, nil
}

// Database exposes the underlying database handle.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Repositories builds every repository on top of the store's database.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:    NewMongoUserRepository(s.db),
		Courses:  NewMongoCourseRepository(s.db),
		Workouts: NewMongoWorkoutRepository(s.db),
		Meals:    NewMongoMealRepository(s.db),
		Uploads:  NewMongoUploadRepository(s.db),
	}
}

// EnsureIndexes creates the indexes of every collection.
// Call this once during application startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{courseCollectionName, EnsureCourseIndexes},
		{workoutCollectionName, EnsureWorkoutIndexes},
		{mealCollectionName, EnsureMealIndexes},
		{uploadCollectionName, EnsureUploadIndexes},
	}
	for _, step := range steps {
		if err := step.fn(ctx, s.db.Collection(step.name)); err != nil {
			return fmt.Errorf("create indexes for %s: %w", step.name, err)
		}
	}
	return nil
}

// Close gracefully disconnects the MongoDB client.
func (s *Store) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
