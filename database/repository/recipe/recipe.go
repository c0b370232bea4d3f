package recipeRepo

import (
	"context"
	"fmt"
	"time"

	"nutrilog/database"
	"nutrilog/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecipeRepository interface {
	CreateMany(ctx context.Context, recipes []models.Recipe) error
	// GetByIDs returns the recipes that exist; missing IDs are not an error.
	GetByIDs(ctx context.Context, ids []string) ([]models.Recipe, error)
	DeleteByDietID(ctx context.Context, dietID string) (int64, error)
}

type mongoRecipeRepo struct {
	coll *mongo.Collection
}

func NewMongoRecipeRepo() RecipeRepository {
	repo := &mongoRecipeRepo{coll: database.Database().Collection("recipes")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create recipe indexes: %v\n", err)
	}
	return repo
}

func (r *mongoRecipeRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "dietId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *mongoRecipeRepo) CreateMany(ctx context.Context, recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	docs := make([]interface{}, len(recipes))
	for i, recipe := range recipes {
		if recipe.ID == "" {
			recipe.ID = uuid.New().String()
		}
		docs[i] = recipe
	}
	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("insert recipes: %w", err)
	}
	return nil
}

func (r *mongoRecipeRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recipes := []models.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *mongoRecipeRepo) DeleteByDietID(ctx context.Context, dietID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"dietId": dietID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
