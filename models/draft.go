package models

import "time"

// ImportDraft is an extracted and projected spreadsheet awaiting confirmation.
// Drafts live in redis only and expire if never confirmed.
type ImportDraft struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	FileName      string         `json:"fileName"`
	FileURL       string         `json:"fileUrl,omitempty"`
	Meals         []ParsedMeal   `json:"meals"`         // the meal pool, in sheet order
	ShoppingItems []string       `json:"shoppingItems"` // distinct ingredients, first appearance order
	Template      DietTemplate   `json:"template"`
	Days          []GeneratedDay `json:"days"`
	CreatedAt     time.Time      `json:"createdAt"`
	ExpiresAt     time.Time      `json:"expiresAt"`
}

// TotalMeals is the number of scheduled meals across all days.
func (d ImportDraft) TotalMeals() int {
	total := 0
	for _, day := range d.Days {
		total += len(day.Meals)
	}
	return total
}

// ImportPreview summarizes a draft for the client before it is confirmed.
type ImportPreview struct {
	Draft      ImportDraft `json:"draft"`
	TotalMeals int         `json:"totalMeals"`
	Skipped    int         `json:"skippedRows"` // data rows dropped for having no meal name
}
