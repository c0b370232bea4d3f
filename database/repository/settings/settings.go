package settingsRepo

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

type SettingsRepository interface {
	// Get returns mongo.ErrNoDocuments when the user never saved settings.
	Get(ctx context.Context, userID string) (*models.ParserSettings, error)
	Upsert(ctx context.Context, settings models.ParserSettings) error
}

type mongoSettingsRepo struct {
	coll *mongo.Collection
}

func NewMongoSettingsRepo() SettingsRepository {
	repo := &mongoSettingsRepo{coll: database.Database().Collection("parser_settings")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		fmt.Printf("failed to create settings indexes: %v\n", err)
	}
	return repo
}

func (r *mongoSettingsRepo) Get(ctx context.Context, userID string) (*models.ParserSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var settings models.ParserSettings
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *mongoSettingsRepo) Upsert(ctx context.Context, settings models.ParserSettings) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"userId": settings.UserID}, settings, opts); err != nil {
		return fmt.Errorf("upsert parser settings: %w", err)
	}
	return nil
}
