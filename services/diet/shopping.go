package diet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nutrilog/models"
	"nutrilog/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// ItemDeletePreview names the shopping item a delete would remove.
type ItemDeletePreview struct {
	Index int    `json:"index"`
	Item  string `json:"item"`
}

func (s *DefaultDietService) loadShoppingList(ctx context.Context, dietID string) (*models.ShoppingList, error) {
	list, err := s.ShoppingLists.GetByDietID(ctx, dietID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFoundError{Resource: "shopping list", ID: dietID}
	}
	if err != nil {
		return nil, fmt.Errorf("load shopping list: %w", err)
	}
	return list, nil
}

// editableItems returns the list's items when they can be edited by index.
// Version 1 lists carry recipe references and are read-only.
func editableItems(list *models.ShoppingList, index int) (models.ShoppingItemsV2, error) {
	switch items := list.Items.(type) {
	case models.ShoppingItemsV2:
		if index < 0 || index >= len(items) {
			return nil, utils.ValidationError{Field: "index", Message: fmt.Sprintf("item %d out of range", index)}
		}
		return items, nil
	case models.ShoppingItemsV1:
		return nil, utils.ValidationError{Field: "version", Message: "version 1 shopping lists cannot be edited"}
	default:
		return nil, fmt.Errorf("unsupported shopping items %T", list.Items)
	}
}

// EditShoppingItem replaces the item at index. Blank values and values equal
// (ignoring case) to another item are rejected without touching the list.
func (s *DefaultDietService) EditShoppingItem(ctx context.Context, dietID string, index int, value string) (*models.ShoppingList, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, utils.ValidationError{Field: "value", Message: "item cannot be blank"}
	}
	list, err := s.loadShoppingList(ctx, dietID)
	if err != nil {
		return nil, err
	}
	items, err := editableItems(list, index)
	if err != nil {
		return nil, err
	}
	if items[index] == value {
		return list, nil
	}
	for i, other := range items {
		if i != index && strings.EqualFold(other, value) {
			return nil, utils.ValidationError{Field: "value", Message: fmt.Sprintf("%q is already on the list", other)}
		}
	}

	updated := items.Rename(index, value)
	if err := s.ShoppingLists.UpdateItems(ctx, dietID, updated); err != nil {
		return nil, fmt.Errorf("update shopping list: %w", err)
	}
	list.Items = updated
	return list, nil
}

// DeleteShoppingItem removes the item at index once confirmed.
func (s *DefaultDietService) DeleteShoppingItem(ctx context.Context, dietID string, index int, confirmed bool) (*models.ShoppingList, error) {
	list, err := s.loadShoppingList(ctx, dietID)
	if err != nil {
		return nil, err
	}
	items, err := editableItems(list, index)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, utils.ConfirmationRequiredError{
			Action:  "delete shopping item",
			Preview: ItemDeletePreview{Index: index, Item: items[index]},
		}
	}

	updated := items.Remove(index)
	if err := s.ShoppingLists.UpdateItems(ctx, dietID, updated); err != nil {
		return nil, fmt.Errorf("update shopping list: %w", err)
	}
	list.Items = updated
	return list, nil
}
