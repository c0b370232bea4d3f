package models

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the calendar date format used in requests.
const DateLayout = "2006-01-02"

// DietTemplate is the caller-specified meal cadence projected onto dates.
type DietTemplate struct {
	MealsPerDay int               `bson:"mealsPerDay" json:"mealsPerDay"`
	StartDate   string            `bson:"startDate" json:"startDate"` // YYYY-MM-DD
	Duration    int               `bson:"duration" json:"duration"`   // days
	MealTimes   map[string]string `bson:"mealTimes" json:"mealTimes"` // keyed meal_0, meal_1, ...
	MealTypes   []MealType        `bson:"mealTypes" json:"mealTypes"`
}

// MealTimeKey returns the mealTimes key for a slot index.
func MealTimeKey(index int) string {
	return "meal_" + strconv.Itoa(index)
}

// TimeFor returns the configured time for a slot index.
func (t DietTemplate) TimeFor(index int) string {
	return t.MealTimes[MealTimeKey(index)]
}

// ParseStartDate returns the template's start date at UTC midnight.
func (t DietTemplate) ParseStartDate() (time.Time, error) {
	return ParseDate(t.StartDate)
}

// ParseDate parses a YYYY-MM-DD date at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

// WithInferredMealTypes fills MealTypes from MealTimes when the caller left
// them out. Templates that already carry types, or whose slot count does not
// match the configured times, are returned unchanged for validation to report.
func (t DietTemplate) WithInferredMealTypes() (DietTemplate, error) {
	if len(t.MealTypes) > 0 || t.MealsPerDay <= 0 || t.MealsPerDay > len(t.MealTimes) {
		return t, nil
	}
	types := make([]MealType, 0, t.MealsPerDay)
	for i := 0; i < t.MealsPerDay; i++ {
		mt, err := MealTypeForTime(t.TimeFor(i))
		if err != nil {
			return t, fmt.Errorf("%s: %w", MealTimeKey(i), err)
		}
		types = append(types, mt)
	}
	t.MealTypes = types
	return t, nil
}
