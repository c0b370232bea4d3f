package diet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nutrilog/models"
	"nutrilog/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SaveDraft persists a confirmed import: one recipe per pool meal used, the
// full schedule and a v2 shopping list. The draft is consumed.
//
// The diet takes the draft's ID, so calling again after a CascadeFailure
// resumes the save: a stored diet is kept and only the missing shopping list
// is written.
func (s *DefaultDietService) SaveDraft(ctx context.Context, userID, draftID string) (*models.Diet, error) {
	logger := utils.GetLogger()

	draft, err := s.Drafts.Get(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}
	if len(draft.Days) == 0 {
		return nil, utils.ValidationError{Field: "draft", Message: "draft has no days"}
	}

	now := s.now()
	dietID := draft.ID
	steps := newCascade("save diet")

	stored, err := s.Diets.GetByID(ctx, dietID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("load diet %s: %w", dietID, err)
	}

	var diet models.Diet
	if stored != nil {
		if stored.UserID != userID {
			return nil, utils.ConflictError{Resource: "diet", ID: dietID}
		}
		diet = *stored
		steps.done("recipes")
		steps.done("diet")
		logger.Info("resuming diet save", zap.String("dietId", dietID))
	} else {
		recipes, recipeIDs := buildRecipes(draft, dietID, now)
		diet = models.Diet{
			ID:        dietID,
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
			Days:      scheduleFromDraft(draft, recipeIDs),
			Metadata: models.DietMetadata{
				TotalDays: len(draft.Days),
				FileName:  draft.FileName,
				FileURL:   draft.FileURL,
			},
		}
		// recipes left by an earlier attempt that stopped before the diet
		if _, err := s.Recipes.DeleteByDietID(ctx, dietID); err != nil {
			return nil, steps.fail("recipes", err).result()
		}
		if err := s.Recipes.CreateMany(ctx, recipes); err != nil {
			return nil, steps.fail("recipes", err).result()
		}
		steps.done("recipes")
		if err := s.Diets.Create(ctx, diet); err != nil {
			return nil, steps.fail("diet", err).result()
		}
		steps.done("diet")
	}

	_, err = s.ShoppingLists.GetByDietID(ctx, dietID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		list := models.ShoppingList{
			ID:        uuid.New().String(),
			DietID:    dietID,
			UserID:    userID,
			StartDate: diet.FirstDate(),
			EndDate:   diet.LastDate(),
			Version:   models.ShoppingListV2,
			Items:     models.ShoppingItemsV2(append([]string{}, draft.ShoppingItems...)),
			CreatedAt: now,
		}
		if err := s.ShoppingLists.Create(ctx, list); err != nil {
			return nil, steps.fail("shopping list", err).result()
		}
	case err != nil:
		return nil, steps.fail("shopping list", err).result()
	}

	s.recordHistory(ctx, diet.ID, nil, "import", diet)

	if s.Notifier != nil {
		payload := models.DietAssignedPayload{
			UserID:    userID,
			DietID:    diet.ID,
			FileName:  diet.Metadata.FileName,
			TotalDays: diet.Metadata.TotalDays,
		}
		if err := s.Notifier.EnqueueDietAssigned(ctx, payload); err != nil {
			logger.Warn("failed to enqueue diet assigned notification", zap.String("dietId", diet.ID), zap.Error(err))
		}
	}
	if err := s.Drafts.Delete(ctx, draftID); err != nil {
		logger.Warn("failed to delete confirmed draft", zap.String("draftId", draftID), zap.Error(err))
	}

	logger.Info("diet saved from import",
		zap.String("userId", userID),
		zap.String("dietId", diet.ID),
		zap.Int("days", len(diet.Days)))
	return &diet, nil
}

// buildRecipes creates one recipe per distinct pool index referenced by the
// draft's days, in pool order.
func buildRecipes(draft *models.ImportDraft, dietID string, now time.Time) ([]models.Recipe, map[int]string) {
	used := make(map[int]bool)
	for _, day := range draft.Days {
		for _, meal := range day.Meals {
			used[meal.MealIndex] = true
		}
	}

	recipes := make([]models.Recipe, 0, len(used))
	ids := make(map[int]string, len(used))
	for index, meal := range draft.Meals {
		if !used[index] {
			continue
		}
		id := uuid.New().String()
		ids[index] = id
		recipes = append(recipes, models.Recipe{
			ID:                id,
			DietID:            dietID,
			UserID:            draft.UserID,
			Name:              meal.Name,
			Instructions:      meal.Instructions,
			Ingredients:       append([]string{}, meal.Ingredients...),
			NutritionalValues: meal.NutritionalValues,
			CreatedAt:         now,
		})
	}
	return recipes, ids
}

func scheduleFromDraft(draft *models.ImportDraft, recipeIDs map[int]string) []models.DietDay {
	days := make([]models.DietDay, len(draft.Days))
	for i, day := range draft.Days {
		meals := make([]models.DayMeal, len(day.Meals))
		for j, meal := range day.Meals {
			meals[j] = models.DayMeal{
				RecipeID: recipeIDs[meal.MealIndex],
				MealType: meal.MealType,
				Time:     meal.Time,
			}
		}
		days[i] = models.DietDay{Date: day.Date, Meals: meals}
	}
	return days
}
