package dietRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nutrilog/database"
	"nutrilog/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrRevisionConflict is returned when the stored diet changed since it was read.
var ErrRevisionConflict = errors.New("diet was modified concurrently")

type DietRepository interface {
	Create(ctx context.Context, diet models.Diet) error
	GetByID(ctx context.Context, id string) (*models.Diet, error)
	ListByUser(ctx context.Context, userID string) ([]models.Diet, error)
	// Replace stores diet if the stored revision is diet.Revision-1.
	Replace(ctx context.Context, diet models.Diet) error
	Delete(ctx context.Context, id string) error
}

type mongoDietRepo struct {
	coll *mongo.Collection
}

// NewMongoDietRepo constructs a new MongoDB DietRepository.
func NewMongoDietRepo() DietRepository {
	repo := &mongoDietRepo{coll: database.Database().Collection("diets")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create diet indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}
