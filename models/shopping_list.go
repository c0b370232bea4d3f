package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Shopping list schema versions.
const (
	ShoppingListV1 = 1
	ShoppingListV2 = 2
)

// ShoppingList is the ingredient list attached to a diet. Its Items field
// holds one of the two schema variants, selected by Version.
type ShoppingList struct {
	ID        string        `bson:"id" json:"id"`
	DietID    string        `bson:"dietId" json:"dietId"`
	UserID    string        `bson:"userId" json:"userId"`
	StartDate time.Time     `bson:"startDate" json:"startDate"` // equals the diet's first day
	EndDate   time.Time     `bson:"endDate" json:"endDate"`     // equals the diet's last day
	Version   int           `bson:"version" json:"version"`
	Items     ShoppingItems `bson:"-" json:"items"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

// ShoppingItems is implemented only by ShoppingItemsV1 and ShoppingItemsV2.
type ShoppingItems interface {
	Version() int
	Names() []string
	Len() int
	// Rename returns a copy with the item at index renamed.
	Rename(index int, name string) ShoppingItems
	// Remove returns a copy without the item at index.
	Remove(index int) ShoppingItems
	sealed()
}

// RecipeRef ties a version 1 item to the meal that needs it.
type RecipeRef struct {
	DayIndex   int    `bson:"dayIndex" json:"dayIndex"`
	RecipeName string `bson:"recipeName" json:"recipeName"`
}

type ShoppingItemV1 struct {
	Name    string      `bson:"name" json:"name"`
	Recipes []RecipeRef `bson:"recipes" json:"recipes"`
}

// ShoppingItemsV1 is the legacy shape: named items with recipe references.
type ShoppingItemsV1 []ShoppingItemV1

// ShoppingItemsV2 is the current shape: bare ingredient strings.
type ShoppingItemsV2 []string

func (ShoppingItemsV1) sealed() {}
func (ShoppingItemsV2) sealed() {}

func (ShoppingItemsV1) Version() int { return ShoppingListV1 }
func (ShoppingItemsV2) Version() int { return ShoppingListV2 }

func (items ShoppingItemsV1) Len() int { return len(items) }
func (items ShoppingItemsV2) Len() int { return len(items) }

func (items ShoppingItemsV1) Names() []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

func (items ShoppingItemsV2) Names() []string {
	names := make([]string, len(items))
	copy(names, items)
	return names
}

func (items ShoppingItemsV1) Rename(index int, name string) ShoppingItems {
	out := make(ShoppingItemsV1, len(items))
	copy(out, items)
	out[index].Name = name
	return out
}

func (items ShoppingItemsV2) Rename(index int, name string) ShoppingItems {
	out := make(ShoppingItemsV2, len(items))
	copy(out, items)
	out[index] = name
	return out
}

func (items ShoppingItemsV1) Remove(index int) ShoppingItems {
	out := make(ShoppingItemsV1, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...)
}

func (items ShoppingItemsV2) Remove(index int) ShoppingItems {
	out := make(ShoppingItemsV2, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...)
}

// DecodeShoppingItems decodes a stored items array according to version.
// Documents written before versioning carry no version and are treated as v1.
func DecodeShoppingItems(version int, raw bson.RawValue) (ShoppingItems, error) {
	if raw.Type == 0 || raw.Type == bsontype.Null {
		if version == ShoppingListV2 {
			return ShoppingItemsV2{}, nil
		}
		return ShoppingItemsV1{}, nil
	}
	switch version {
	case ShoppingListV2:
		var items ShoppingItemsV2
		if err := raw.Unmarshal(&items); err != nil {
			return nil, fmt.Errorf("decode v2 shopping items: %w", err)
		}
		return items, nil
	case 0, ShoppingListV1:
		var items ShoppingItemsV1
		if err := raw.Unmarshal(&items); err != nil {
			return nil, fmt.Errorf("decode v1 shopping items: %w", err)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unknown shopping list version %d", version)
	}
}
