package shoppingListRepo

import (
	"context"
	"fmt"
	"time"

	"nutrilog/database"
	"nutrilog/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ShoppingListRepository interface {
	Create(ctx context.Context, list models.ShoppingList) error
	// GetByDietID returns mongo.ErrNoDocuments when the diet has no list.
	GetByDietID(ctx context.Context, dietID string) (*models.ShoppingList, error)
	UpdateDates(ctx context.Context, dietID string, start, end time.Time) error
	UpdateItems(ctx context.Context, dietID string, items models.ShoppingItems) error
	DeleteByDietID(ctx context.Context, dietID string) error
}

type mongoShoppingListRepo struct {
	coll *mongo.Collection
}

func NewMongoShoppingListRepo() ShoppingListRepository {
	repo := &mongoShoppingListRepo{coll: database.Database().Collection("shopping_lists")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create shopping list indexes: %v\n", err)
	}
	return repo
}

func (r *mongoShoppingListRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// one list per diet
		{Keys: bson.D{{Key: "dietId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
