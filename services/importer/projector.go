package importer

import (
	"fmt"

	"nutrilog/models"
	"nutrilog/utils"
)

// Template bounds. main overrides them from configuration.
var (
	MaxMealsPerDay = 10
	MaxDuration    = 365
)

// Projection is a meal pool laid out over the template's date range.
// Template is the input with meal types resolved.
type Projection struct {
	Template     models.DietTemplate   `json:"template"`
	Days         []models.GeneratedDay `json:"days"`
	ShoppingList []string              `json:"shoppingList"`
}

// ValidateSlots checks the per-slot part of a template: slot count, one
// known meal type per slot and an HH:MM time per slot.
func ValidateSlots(template models.DietTemplate) error {
	if template.MealsPerDay <= 0 {
		return utils.ValidationError{Field: "mealsPerDay", Message: "must be greater than zero"}
	}
	if template.MealsPerDay > MaxMealsPerDay {
		return utils.ValidationError{Field: "mealsPerDay", Message: fmt.Sprintf("must be at most %d", MaxMealsPerDay)}
	}
	if len(template.MealTypes) != template.MealsPerDay {
		return utils.ValidationError{
			Field:   "mealTypes",
			Message: fmt.Sprintf("expected %d meal types, got %d", template.MealsPerDay, len(template.MealTypes)),
		}
	}
	for i, mt := range template.MealTypes {
		if !mt.Valid() {
			return utils.ValidationError{Field: "mealTypes", Message: fmt.Sprintf("unknown meal type %q at %d", mt, i)}
		}
	}
	for i := 0; i < template.MealsPerDay; i++ {
		if _, err := models.ParseClock(template.TimeFor(i)); err != nil {
			return utils.ValidationError{Field: "mealTimes." + models.MealTimeKey(i), Message: err.Error()}
		}
	}
	return nil
}

// ValidateTemplate checks a full template as used for projection.
func ValidateTemplate(template models.DietTemplate) error {
	if err := ValidateSlots(template); err != nil {
		return err
	}
	if template.Duration <= 0 {
		return utils.ValidationError{Field: "duration", Message: "must be greater than zero"}
	}
	if template.Duration > MaxDuration {
		return utils.ValidationError{Field: "duration", Message: fmt.Sprintf("must be at most %d days", MaxDuration)}
	}
	if _, err := template.ParseStartDate(); err != nil {
		return utils.ValidationError{Field: "startDate", Message: err.Error()}
	}
	return nil
}

// Project assigns pool meals to template slots day by day. A single counter
// runs across all days so the pool is consumed cyclically: slot n receives
// pool[n % len(pool)].
func Project(extracted *ExtractResult, template models.DietTemplate) (*Projection, error) {
	if extracted == nil || len(extracted.Meals) == 0 {
		return nil, utils.ValidationError{Field: "meals", Message: "no meals to schedule"}
	}
	template, err := template.WithInferredMealTypes()
	if err != nil {
		return nil, utils.ValidationError{Field: "mealTimes", Message: err.Error()}
	}
	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}
	start, _ := template.ParseStartDate()

	pool := extracted.Meals
	days := make([]models.GeneratedDay, template.Duration)
	counter := 0
	for i := range days {
		meals := make([]models.ScheduledMeal, template.MealsPerDay)
		for slot := range meals {
			index := counter % len(pool)
			meals[slot] = models.ScheduledMeal{
				ParsedMeal: pool[index],
				MealType:   template.MealTypes[slot],
				Time:       template.TimeFor(slot),
				MealIndex:  index,
			}
			counter++
		}
		days[i] = models.GeneratedDay{Date: start.AddDate(0, 0, i), Meals: meals}
	}

	return &Projection{Template: template, Days: days, ShoppingList: extracted.ShoppingList}, nil
}
