package diet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nutrilog/models"
	"nutrilog/services/storage"
	"nutrilog/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// sourceURLTTL is how long a signed link to the source workbook stays valid.
const sourceURLTTL = 15 * time.Minute

// GetDiet returns a diet with its recipes resolved. Slots whose recipe is
// gone render as models.RecipeUnavailable instead of failing the view.
func (s *DefaultDietService) GetDiet(ctx context.Context, dietID string) (*models.DietView, error) {
	diet, err := s.load(ctx, dietID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, day := range diet.Days {
		for _, meal := range day.Meals {
			if meal.RecipeID != "" && !seen[meal.RecipeID] {
				seen[meal.RecipeID] = true
				ids = append(ids, meal.RecipeID)
			}
		}
	}
	recipes := map[string]models.Recipe{}
	if len(ids) > 0 {
		found, err := s.Recipes.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load recipes: %w", err)
		}
		for _, r := range found {
			recipes[r.ID] = r
		}
	}

	view := &models.DietView{Diet: *diet, Days: make([]models.DietDayView, len(diet.Days))}
	missing := map[string]bool{}
	for i, day := range diet.Days {
		meals := make([]models.DayMealView, len(day.Meals))
		for j, meal := range day.Meals {
			r, ok := recipes[meal.RecipeID]
			if !ok {
				meals[j] = models.DayMealView{DayMeal: meal, Name: models.RecipeUnavailable}
				if !missing[meal.RecipeID] {
					missing[meal.RecipeID] = true
					view.Missing = append(view.Missing, meal.RecipeID)
				}
				continue
			}
			meals[j] = models.DayMealView{
				DayMeal:           meal,
				Name:              r.Name,
				Instructions:      r.Instructions,
				Ingredients:       r.Ingredients,
				NutritionalValues: r.NutritionalValues,
				Available:         true,
			}
		}
		view.Days[i] = models.DietDayView{Date: day.Date, Meals: meals}
	}

	list, err := s.ShoppingLists.GetByDietID(ctx, dietID)
	switch {
	case err == nil:
		view.ShoppingList = list
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("load shopping list: %w", err)
	}
	return view, nil
}

// ListDiets returns a user's diets, newest first.
func (s *DefaultDietService) ListDiets(ctx context.Context, userID string) ([]models.Diet, error) {
	return s.Diets.ListByUser(ctx, userID)
}

// OwnerOf returns the user a diet belongs to.
func (s *DefaultDietService) OwnerOf(ctx context.Context, dietID string) (string, error) {
	diet, err := s.load(ctx, dietID)
	if err != nil {
		return "", err
	}
	return diet.UserID, nil
}

// SourceURL returns a short-lived signed link to the workbook a diet was imported from.
func (s *DefaultDietService) SourceURL(ctx context.Context, dietID string) (string, error) {
	diet, err := s.load(ctx, dietID)
	if err != nil {
		return "", err
	}
	if s.Storage == nil || diet.Metadata.FileName == "" {
		return "", utils.NotFoundError{Resource: "source file", ID: dietID}
	}
	return s.Storage.GetSecureDownloadURL(storage.DietSourcePath(diet.UserID, diet.Metadata.FileName), sourceURLTTL)
}
