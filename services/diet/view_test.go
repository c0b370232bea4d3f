package diet

import (
	"context"
	"testing"

	"nutrilog/models"
)

func TestGetDiet_MissingRecipeUsesPlaceholder(t *testing.T) {
	f := newFixture()
	f.seedDiet("d1", 2, true, "mleko")
	delete(f.recipes.recipes, "r-dinner")

	view, err := f.svc.GetDiet(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetDiet() error = %v", err)
	}
	breakfast := view.Days[0].Meals[0]
	if !breakfast.Available || breakfast.Name != "Owsianka" {
		t.Errorf("unexpected breakfast %+v", breakfast)
	}
	dinner := view.Days[1].Meals[1]
	if dinner.Available || dinner.Name != models.RecipeUnavailable {
		t.Errorf("expected placeholder, got %+v", dinner)
	}
	if len(view.Missing) != 1 || view.Missing[0] != "r-dinner" {
		t.Errorf("missing = %v", view.Missing)
	}
	if view.ShoppingList == nil || view.ShoppingList.Items.Len() != 1 {
		t.Errorf("expected the shopping list in the view, got %+v", view.ShoppingList)
	}
}

func TestGetDiet_NoShoppingList(t *testing.T) {
	f := newFixture()
	f.seedDiet("d1", 1, false)

	view, err := f.svc.GetDiet(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetDiet() error = %v", err)
	}
	if view.ShoppingList != nil {
		t.Errorf("expected no shopping list, got %+v", view.ShoppingList)
	}
}
