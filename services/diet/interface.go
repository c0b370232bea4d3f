package diet

import (
	"context"
	"time"

	dietRepo "nutrilog/database/repository/diet"
	recipeRepo "nutrilog/database/repository/recipe"
	shoppingListRepo "nutrilog/database/repository/shoppinglist"
	"nutrilog/models"
	"nutrilog/services/importer"
	"nutrilog/services/storage"
	"nutrilog/services/tasks"
)

// DietService saves confirmed imports and edits persisted diets.
type DietService interface {
	SaveDraft(ctx context.Context, userID, draftID string) (*models.Diet, error)
	GetDiet(ctx context.Context, dietID string) (*models.DietView, error)
	ListDiets(ctx context.Context, userID string) ([]models.Diet, error)
	OwnerOf(ctx context.Context, dietID string) (string, error)
	SourceURL(ctx context.Context, dietID string) (string, error)

	UpdateMealTime(ctx context.Context, dietID string, day, meal int, newTime string) (*models.Diet, error)
	ApplyTemplate(ctx context.Context, dietID string, template models.DietTemplate, confirmed bool) (*models.Diet, error)
	ShiftStartDate(ctx context.Context, dietID, newStart string, confirmed bool) (*models.Diet, error)

	EditShoppingItem(ctx context.Context, dietID string, index int, value string) (*models.ShoppingList, error)
	DeleteShoppingItem(ctx context.Context, dietID string, index int, confirmed bool) (*models.ShoppingList, error)

	DeleteDiet(ctx context.Context, dietID string, confirmed bool) (*DeleteReport, error)

	Undo(ctx context.Context, dietID string) (*models.Diet, error)
	Redo(ctx context.Context, dietID string) (*models.Diet, error)
}

// DefaultDietService is the production DietService.
type DefaultDietService struct {
	Diets         dietRepo.DietRepository
	ShoppingLists shoppingListRepo.ShoppingListRepository
	Recipes       recipeRepo.RecipeRepository
	Drafts        importer.DraftStore
	History       HistoryStore
	// Notifier and Storage are optional.
	Notifier tasks.Enqueuer
	Storage  storage.StorageService
	// Now defaults to time.Now in UTC.
	Now func() time.Time
}

func (s *DefaultDietService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
