package diet

import (
	"context"
	"errors"

	"nutrilog/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DeleteReport lists the cascade steps that were applied.
type DeleteReport struct {
	DietID    string   `json:"dietId"`
	Completed []string `json:"completed"`
	Recipes   int64    `json:"recipesDeleted"`
}

// DeletePreview describes what a diet deletion removes.
type DeletePreview struct {
	DietID   string `json:"dietId"`
	FileName string `json:"fileName"`
	Days     int    `json:"days"`
}

// DeleteDiet removes a diet and the documents that exist only for it, in
// order: diet, shopping list, recipes, edit history. Every step is attempted
// and any failure yields a CascadeFailure naming what was and was not removed.
// A confirmed call for a diet whose record is already gone removes leftovers
// of an earlier partial deletion.
func (s *DefaultDietService) DeleteDiet(ctx context.Context, dietID string, confirmed bool) (*DeleteReport, error) {
	logger := utils.GetLogger()

	diet, err := s.load(ctx, dietID)
	orphaned := utils.IsNotFound(err)
	if err != nil && !(orphaned && confirmed) {
		return nil, err
	}
	if !confirmed {
		return nil, utils.ConfirmationRequiredError{
			Action: "delete diet",
			Preview: DeletePreview{
				DietID:   dietID,
				FileName: diet.Metadata.FileName,
				Days:     len(diet.Days),
			},
		}
	}

	steps := newCascade("delete diet")
	report := &DeleteReport{DietID: dietID}
	removedDependents := false

	if !orphaned {
		if err := s.Diets.Delete(ctx, dietID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			// nothing removed yet
			return nil, err
		}
		steps.done("diet")
	}

	switch err := s.ShoppingLists.DeleteByDietID(ctx, dietID); {
	case err == nil:
		steps.done("shopping list")
		removedDependents = true
	case errors.Is(err, mongo.ErrNoDocuments):
	default:
		steps.fail("shopping list", err)
	}

	removed, err := s.Recipes.DeleteByDietID(ctx, dietID)
	switch {
	case err != nil:
		steps.fail("recipes", err)
	case removed > 0:
		report.Recipes = removed
		steps.done("recipes")
		removedDependents = true
	}

	if s.History != nil {
		if err := s.History.Delete(ctx, dietID); err != nil {
			steps.fail("history", err)
		} else {
			steps.done("history")
		}
	}

	report.Completed = steps.completed
	if err := steps.result(); err != nil {
		logger.Error("diet deletion incomplete", zap.String("dietId", dietID), zap.Error(err))
		return report, err
	}
	if orphaned && !removedDependents {
		return nil, utils.NotFoundError{Resource: "diet", ID: dietID}
	}

	logger.Info("diet deleted", zap.String("dietId", dietID), zap.Strings("completed", report.Completed))
	return report, nil
}
