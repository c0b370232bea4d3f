package shoppingListRepo

import (
	"context"
	"fmt"
	"time"

	"nutrilog/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// storedShoppingList mirrors models.ShoppingList with the items left raw so
// they can be decoded by version.
type storedShoppingList struct {
	ID        string        `bson:"id"`
	DietID    string        `bson:"dietId"`
	UserID    string        `bson:"userId"`
	StartDate time.Time     `bson:"startDate"`
	EndDate   time.Time     `bson:"endDate"`
	Version   int           `bson:"version,omitempty"`
	Items     bson.RawValue `bson:"items"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (s storedShoppingList) toModel() (*models.ShoppingList, error) {
	items, err := models.DecodeShoppingItems(s.Version, s.Items)
	if err != nil {
		return nil, err
	}
	return &models.ShoppingList{
		ID:        s.ID,
		DietID:    s.DietID,
		UserID:    s.UserID,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Version:   items.Version(),
		Items:     items,
		CreatedAt: s.CreatedAt,
	}, nil
}

func (r *mongoShoppingListRepo) Create(ctx context.Context, list models.ShoppingList) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.Items == nil {
		list.Items = models.ShoppingItemsV2{}
	}
	doc := bson.M{
		"id":        list.ID,
		"dietId":    list.DietID,
		"userId":    list.UserID,
		"startDate": list.StartDate,
		"endDate":   list.EndDate,
		"version":   list.Items.Version(),
		"items":     list.Items,
		"createdAt": list.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert shopping list: %w", err)
	}
	return nil
}

func (r *mongoShoppingListRepo) GetByDietID(ctx context.Context, dietID string) (*models.ShoppingList, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var stored storedShoppingList
	if err := r.coll.FindOne(ctx, bson.M{"dietId": dietID}).Decode(&stored); err != nil {
		return nil, err
	}
	return stored.toModel()
}

func (r *mongoShoppingListRepo) UpdateDates(ctx context.Context, dietID string, start, end time.Time) error {
	return r.update(ctx, dietID, bson.M{"startDate": start, "endDate": end})
}

// UpdateItems rewrites the items and pins the version to the variant written.
func (r *mongoShoppingListRepo) UpdateItems(ctx context.Context, dietID string, items models.ShoppingItems) error {
	return r.update(ctx, dietID, bson.M{"items": items, "version": items.Version()})
}

func (r *mongoShoppingListRepo) update(ctx context.Context, dietID string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"dietId": dietID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update shopping list: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoShoppingListRepo) DeleteByDietID(ctx context.Context, dietID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"dietId": dietID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
