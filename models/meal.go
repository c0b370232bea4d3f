package models

import (
	"fmt"
	"time"
)

// MealType is the closed set of meal slots a day can hold.
type MealType string

const (
	MealTypeBreakfast       MealType = "BREAKFAST"
	MealTypeSecondBreakfast MealType = "SECOND_BREAKFAST"
	MealTypeLunch           MealType = "LUNCH"
	MealTypeSnack           MealType = "SNACK"
	MealTypeDinner          MealType = "DINNER"
)

// AllMealTypes lists meal types in their daily order.
var AllMealTypes = []MealType{
	MealTypeBreakfast,
	MealTypeSecondBreakfast,
	MealTypeLunch,
	MealTypeSnack,
	MealTypeDinner,
}

// Valid reports whether t is one of the known meal types.
func (t MealType) Valid() bool {
	for _, known := range AllMealTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ClockLayout is the time-of-day format used for meal times.
const ClockLayout = "15:04"

// ParseClock validates an "HH:MM" time-of-day string.
func ParseClock(clock string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid meal time %q, expected HH:MM", clock)
	}
	return t, nil
}

// MealTypeForTime infers a meal type from an "HH:MM" clock time:
// 06-09 breakfast, 10-11 second breakfast, 12-15 lunch, 16-18 snack, otherwise dinner.
func MealTypeForTime(clock string) (MealType, error) {
	t, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	hour := t.Hour()
	switch {
	case hour >= 6 && hour < 10:
		return MealTypeBreakfast, nil
	case hour >= 10 && hour < 12:
		return MealTypeSecondBreakfast, nil
	case hour >= 12 && hour < 16:
		return MealTypeLunch, nil
	case hour >= 16 && hour < 19:
		return MealTypeSnack, nil
	default:
		return MealTypeDinner, nil
	}
}

// NutritionalValues per meal, as read from the spreadsheet.
type NutritionalValues struct {
	Calories float64 `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein" json:"protein"`
	Fat      float64 `bson:"fat" json:"fat"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
}

// ParsedMeal is one named row of an imported spreadsheet.
type ParsedMeal struct {
	Name              string             `bson:"name" json:"name"`
	Instructions      string             `bson:"instructions" json:"instructions"`
	Ingredients       []string           `bson:"ingredients" json:"ingredients"`
	NutritionalValues *NutritionalValues `bson:"nutritionalValues,omitempty" json:"nutritionalValues,omitempty"` // nil when the source cell is empty or malformed
}

// ScheduledMeal is a parsed meal placed into a day slot by a template.
type ScheduledMeal struct {
	ParsedMeal `bson:",inline"`
	MealType   MealType `bson:"mealType" json:"mealType"`
	Time       string   `bson:"time" json:"time"`
	MealIndex  int      `bson:"mealIndex" json:"mealIndex"` // index into the draft's meal pool
}

// GeneratedDay is one projected day of a draft schedule.
type GeneratedDay struct {
	Date  time.Time       `bson:"date" json:"date"`
	Meals []ScheduledMeal `bson:"meals" json:"meals"`
}
