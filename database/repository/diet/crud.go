package dietRepo

import (
	"context"
	"fmt"
	"time"

	"nutrilog/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoDietRepo) Create(ctx context.Context, diet models.Diet) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if diet.ID == "" {
		diet.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, diet); err != nil {
		return fmt.Errorf("insert diet: %w", err)
	}
	return nil
}

func (r *mongoDietRepo) GetByID(ctx context.Context, id string) (*models.Diet, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var diet models.Diet
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&diet); err != nil {
		return nil, err
	}
	return &diet, nil
}

func (r *mongoDietRepo) ListByUser(ctx context.Context, userID string) ([]models.Diet, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	diets := []models.Diet{}
	if err := cursor.All(ctx, &diets); err != nil {
		return nil, err
	}
	return diets, nil
}

func (r *mongoDietRepo) Replace(ctx context.Context, diet models.Diet) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": diet.ID, "revision": diet.Revision - 1}
	res, err := r.coll.ReplaceOne(ctx, filter, diet)
	if err != nil {
		return fmt.Errorf("replace diet: %w", err)
	}
	if res.MatchedCount == 0 {
		count, err := r.coll.CountDocuments(ctx, bson.M{"id": diet.ID})
		if err != nil {
			return err
		}
		if count == 0 {
			return mongo.ErrNoDocuments
		}
		return ErrRevisionConflict
	}
	return nil
}

func (r *mongoDietRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
