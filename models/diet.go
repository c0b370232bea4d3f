package models

import "time"

// Diet is a persisted multi-day meal schedule owned by one user.
type Diet struct {
	ID        string       `bson:"id" json:"id"`
	UserID    string       `bson:"userId" json:"userId"`
	CreatedAt time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time    `bson:"updatedAt" json:"updatedAt"`
	Revision  int          `bson:"revision" json:"revision"` // number of edits since the first save
	Days      []DietDay    `bson:"days" json:"days"`
	Metadata  DietMetadata `bson:"metadata" json:"metadata"`
}

type DietDay struct {
	Date  time.Time `bson:"date" json:"date"`
	Meals []DayMeal `bson:"meals" json:"meals"`
}

// DayMeal references a recipe and carries the slot's type and time.
type DayMeal struct {
	RecipeID string   `bson:"recipeId" json:"recipeId"`
	MealType MealType `bson:"mealType" json:"mealType"`
	Time     string   `bson:"time" json:"time"`
}

type DietMetadata struct {
	TotalDays int    `bson:"totalDays" json:"totalDays"`
	FileName  string `bson:"fileName" json:"fileName"`
	FileURL   string `bson:"fileUrl" json:"fileUrl"`
}

// FirstDate returns the date of the first day, or the zero time for an empty diet.
func (d Diet) FirstDate() time.Time {
	if len(d.Days) == 0 {
		return time.Time{}
	}
	return d.Days[0].Date
}

// LastDate returns the date of the last day, or the zero time for an empty diet.
func (d Diet) LastDate() time.Time {
	if len(d.Days) == 0 {
		return time.Time{}
	}
	return d.Days[len(d.Days)-1].Date
}

// CloneDays returns a deep copy of the schedule.
func (d Diet) CloneDays() []DietDay {
	return CloneDays(d.Days)
}

// CloneDays deep copies days so the copy shares no meal slices.
func CloneDays(days []DietDay) []DietDay {
	out := make([]DietDay, len(days))
	for i, day := range days {
		meals := make([]DayMeal, len(day.Meals))
		copy(meals, day.Meals)
		out[i] = DietDay{Date: day.Date, Meals: meals}
	}
	return out
}

// Recipe is the stored content of one meal, created for a diet at save time.
type Recipe struct {
	ID                string             `bson:"id" json:"id"`
	DietID            string             `bson:"dietId" json:"dietId"`
	UserID            string             `bson:"userId" json:"userId"`
	Name              string             `bson:"name" json:"name"`
	Instructions      string             `bson:"instructions" json:"instructions"`
	Ingredients       []string           `bson:"ingredients" json:"ingredients"`
	NutritionalValues *NutritionalValues `bson:"nutritionalValues,omitempty" json:"nutritionalValues,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// RecipeUnavailable is shown for day meals whose recipe no longer exists.
const RecipeUnavailable = "recipe unavailable"

// DietView is a diet with its recipes resolved for display.
type DietView struct {
	Diet         Diet          `json:"diet"`
	Days         []DietDayView `json:"days"`
	ShoppingList *ShoppingList `json:"shoppingList,omitempty"`
	Missing      []string      `json:"missingRecipeIds,omitempty"`
}

type DietDayView struct {
	Date  time.Time     `json:"date"`
	Meals []DayMealView `json:"meals"`
}

type DayMealView struct {
	DayMeal
	Name              string             `json:"name"`
	Instructions      string             `json:"instructions,omitempty"`
	Ingredients       []string           `json:"ingredients,omitempty"`
	NutritionalValues *NutritionalValues `json:"nutritionalValues,omitempty"`
	Available         bool               `json:"available"`
}
