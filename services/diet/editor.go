package diet

import (
	"context"
	"errors"
	"fmt"

	dietRepo "nutrilog/database/repository/diet"
	"nutrilog/models"
	"nutrilog/services/importer"
	"nutrilog/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ShiftPreview describes a pending start date change.
type ShiftPreview struct {
	CurrentStart         string `json:"currentStart"`
	NewStart             string `json:"newStart"`
	NewEnd               string `json:"newEnd"`
	Days                 int    `json:"days"`
	ShoppingListAffected bool   `json:"shoppingListAffected"`
}

func (s *DefaultDietService) load(ctx context.Context, dietID string) (*models.Diet, error) {
	diet, err := s.Diets.GetByID(ctx, dietID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.NotFoundError{Resource: "diet", ID: dietID}
	}
	if err != nil {
		return nil, fmt.Errorf("load diet %s: %w", dietID, err)
	}
	return diet, nil
}

// apply stores days as the diet's new schedule. When the first or last date
// moves, the shopping list window follows; a failure there is reported as a
// CascadeFailure since the diet is already written.
func (s *DefaultDietService) apply(ctx context.Context, diet *models.Diet, days []models.DietDay, label string, record bool) error {
	before := *diet

	next := *diet
	next.Days = days
	next.Revision = diet.Revision + 1
	next.UpdatedAt = s.now()
	err := s.Diets.Replace(ctx, next)
	switch {
	case errors.Is(err, dietRepo.ErrRevisionConflict):
		return utils.ConflictError{Resource: "diet", ID: diet.ID}
	case errors.Is(err, mongo.ErrNoDocuments):
		return utils.NotFoundError{Resource: "diet", ID: diet.ID}
	case err != nil:
		return fmt.Errorf("%s: %w", label, err)
	}
	*diet = next

	if record {
		s.recordHistory(ctx, diet.ID, &before, label, *diet)
	}

	if before.FirstDate().Equal(diet.FirstDate()) && before.LastDate().Equal(diet.LastDate()) {
		return nil
	}
	steps := newCascade(label)
	steps.done("diet")
	err = s.ShoppingLists.UpdateDates(ctx, diet.ID, diet.FirstDate(), diet.LastDate())
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return steps.fail("shopping list", err).result()
	}
	return nil
}

// recordHistory pushes after onto the diet's edit history. A missing history
// is seeded from before (or from after for a new diet). Failures are logged
// only; history is a convenience, not part of the diet.
func (s *DefaultDietService) recordHistory(ctx context.Context, dietID string, before *models.Diet, label string, after models.Diet) {
	if s.History == nil {
		return
	}
	logger := utils.GetLogger()
	now := s.now()

	h, err := s.History.Load(ctx, dietID)
	if err != nil {
		logger.Warn("failed to load edit history", zap.String("dietId", dietID), zap.Error(err))
		return
	}
	switch {
	case h == nil && before == nil:
		h = NewEditHistory(label, after.CloneDays(), now)
	case h == nil:
		h = NewEditHistory("initial", before.CloneDays(), before.UpdatedAt)
		h.Push(label, after.CloneDays(), now)
	default:
		h.Push(label, after.CloneDays(), now)
	}
	if err := s.History.Save(ctx, dietID, h); err != nil {
		logger.Warn("failed to save edit history", zap.String("dietId", dietID), zap.Error(err))
	}
}

// UpdateMealTime changes the time of a single slot. The meal type is kept.
func (s *DefaultDietService) UpdateMealTime(ctx context.Context, dietID string, day, meal int, newTime string) (*models.Diet, error) {
	if _, err := models.ParseClock(newTime); err != nil {
		return nil, utils.ValidationError{Field: "time", Message: err.Error()}
	}
	diet, err := s.load(ctx, dietID)
	if err != nil {
		return nil, err
	}
	if day < 0 || day >= len(diet.Days) {
		return nil, utils.ValidationError{Field: "day", Message: fmt.Sprintf("day %d out of range", day)}
	}
	if meal < 0 || meal >= len(diet.Days[day].Meals) {
		return nil, utils.ValidationError{Field: "meal", Message: fmt.Sprintf("meal %d out of range", meal)}
	}
	if diet.Days[day].Meals[meal].Time == newTime {
		return diet, nil
	}

	days := diet.CloneDays()
	days[day].Meals[meal].Time = newTime
	if err := s.apply(ctx, diet, days, "meal time", true); err != nil {
		return nil, err
	}
	return diet, nil
}

// ApplyTemplate rewrites the type and time of every slot index on every day
// from template. Recipes stay in place. Unconfirmed calls return the
// resulting schedule as a preview.
func (s *DefaultDietService) ApplyTemplate(ctx context.Context, dietID string, template models.DietTemplate, confirmed bool) (*models.Diet, error) {
	template, err := template.WithInferredMealTypes()
	if err != nil {
		return nil, utils.ValidationError{Field: "mealTimes", Message: err.Error()}
	}
	if err := importer.ValidateSlots(template); err != nil {
		return nil, err
	}
	diet, err := s.load(ctx, dietID)
	if err != nil {
		return nil, err
	}

	days := diet.CloneDays()
	for i := range days {
		if len(days[i].Meals) != template.MealsPerDay {
			return nil, utils.ValidationError{
				Field:   "mealsPerDay",
				Message: fmt.Sprintf("day %d has %d meals, template has %d", i, len(days[i].Meals), template.MealsPerDay),
			}
		}
		for slot := range days[i].Meals {
			days[i].Meals[slot].MealType = template.MealTypes[slot]
			days[i].Meals[slot].Time = template.TimeFor(slot)
		}
	}

	if !confirmed {
		return nil, utils.ConfirmationRequiredError{Action: "apply template", Preview: days}
	}
	if err := s.apply(ctx, diet, days, "template", true); err != nil {
		return nil, err
	}
	return diet, nil
}

// ShiftStartDate moves every day so the diet starts at newStart, and moves
// the shopping list window with it.
func (s *DefaultDietService) ShiftStartDate(ctx context.Context, dietID, newStart string, confirmed bool) (*models.Diet, error) {
	start, err := models.ParseDate(newStart)
	if err != nil {
		return nil, utils.ValidationError{Field: "startDate", Message: err.Error()}
	}
	diet, err := s.load(ctx, dietID)
	if err != nil {
		return nil, err
	}
	if len(diet.Days) == 0 {
		return nil, utils.ValidationError{Field: "days", Message: "diet has no days"}
	}
	if diet.FirstDate().Equal(start) {
		return diet, nil
	}

	days := diet.CloneDays()
	for i := range days {
		days[i].Date = start.AddDate(0, 0, i)
	}

	if !confirmed {
		_, listErr := s.ShoppingLists.GetByDietID(ctx, dietID)
		if listErr != nil && !errors.Is(listErr, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("load shopping list: %w", listErr)
		}
		return nil, utils.ConfirmationRequiredError{
			Action: "shift start date",
			Preview: ShiftPreview{
				CurrentStart:         diet.FirstDate().Format(models.DateLayout),
				NewStart:             start.Format(models.DateLayout),
				NewEnd:               days[len(days)-1].Date.Format(models.DateLayout),
				Days:                 len(days),
				ShoppingListAffected: listErr == nil,
			},
		}
	}
	if err := s.apply(ctx, diet, days, "start date", true); err != nil {
		return nil, err
	}
	return diet, nil
}

// Undo restores the schedule before the latest edit.
func (s *DefaultDietService) Undo(ctx context.Context, dietID string) (*models.Diet, error) {
	return s.travel(ctx, dietID, "undo", (*EditHistory).Undo)
}

// Redo reapplies the most recently undone edit.
func (s *DefaultDietService) Redo(ctx context.Context, dietID string) (*models.Diet, error) {
	return s.travel(ctx, dietID, "redo", (*EditHistory).Redo)
}

func (s *DefaultDietService) travel(ctx context.Context, dietID, action string, move func(*EditHistory) (Snapshot, bool)) (*models.Diet, error) {
	diet, err := s.load(ctx, dietID)
	if err != nil {
		return nil, err
	}
	if s.History == nil {
		return nil, utils.ValidationError{Field: "history", Message: "edit history is disabled"}
	}
	h, err := s.History.Load(ctx, dietID)
	if err != nil {
		return nil, fmt.Errorf("load edit history: %w", err)
	}
	if h == nil {
		return nil, utils.ValidationError{Field: "history", Message: "no edit history for this diet"}
	}
	snap, ok := move(h)
	if !ok {
		return nil, utils.ValidationError{Field: "history", Message: "nothing to " + action}
	}

	applyErr := s.apply(ctx, diet, models.CloneDays(snap.Days), action, false)
	var cascadeErr utils.CascadeFailure
	if applyErr != nil && !errors.As(applyErr, &cascadeErr) {
		return nil, applyErr
	}
	// the diet is written; the cursor must follow even if the list lagged
	if err := s.History.Save(ctx, dietID, h); err != nil {
		utils.GetLogger().Warn("failed to save edit history", zap.String("dietId", dietID), zap.Error(err))
	}
	if applyErr != nil {
		return nil, applyErr
	}
	return diet, nil
}
