package importer

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"nutrilog/models"
	"nutrilog/utils"

	"github.com/xuri/excelize/v2"
)

// Spreadsheet column layout, zero-based (A=0).
const (
	colName         = 1 // B
	colInstructions = 2 // C
	colIngredients  = 3 // D
	colNutrition    = 4 // E
)

// Nutrition values outside this range are treated as garbled input.
const (
	minNutritionValue = 0
	maxNutritionValue = 1000
)

// ExtractResult is the flat content of one uploaded workbook.
type ExtractResult struct {
	Meals        []models.ParsedMeal `json:"meals"`
	TotalMeals   int                 `json:"totalMeals"`
	ShoppingList []string            `json:"shoppingList"`
	SkippedRows  int                 `json:"skippedRows"` // data rows without a meal name
}

// Extractor reads meal rows from the first worksheet of a workbook.
type Extractor struct {
	// SkipRows is the number of leading header rows to ignore.
	SkipRows int
}

func NewExtractor(skipRows int) *Extractor {
	return &Extractor{SkipRows: skipRows}
}

// Extract reads the workbook in r. Any read failure, or a sheet without a
// single named meal, yields a utils.ParseError and no partial result.
func (e *Extractor) Extract(ctx context.Context, r io.Reader) (*ExtractResult, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, utils.ParseError{Message: "parse failed", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	skip := e.SkipRows
	if skip < 0 {
		skip = 0
	}
	if len(rows) <= skip {
		return nil, utils.ParseError{Message: "spreadsheet has no data rows"}
	}
	data := rows[skip:]

	// Two passes with different row filters: ingredients are collected from
	// every row, meals only from rows that carry a name.
	shopping := AggregateShoppingItems(nil, data)
	meals, skipped := extractMeals(data)
	if len(meals) == 0 {
		return nil, utils.ParseError{Message: "spreadsheet contains no named meals"}
	}

	return &ExtractResult{
		Meals:        meals,
		TotalMeals:   len(meals),
		ShoppingList: shopping,
		SkippedRows:  skipped,
	}, nil
}

func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no worksheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return rows, nil
}

// cell returns the trimmed value at col; excelize drops trailing empty cells.
func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func extractMeals(rows [][]string) ([]models.ParsedMeal, int) {
	meals := make([]models.ParsedMeal, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		name := cell(row, colName)
		if name == "" {
			skipped++
			continue
		}
		meals = append(meals, models.ParsedMeal{
			Name:              name,
			Instructions:      cell(row, colInstructions),
			Ingredients:       SplitIngredients(cell(row, colIngredients)),
			NutritionalValues: ParseNutritionalValues(cell(row, colNutrition)),
		})
	}
	return meals, skipped
}

// SplitIngredients splits a comma separated ingredients cell. Each token is
// trimmed and loses one trailing period; empty tokens are dropped.
func SplitIngredients(value string) []string {
	items := []string{}
	if value == "" {
		return items
	}
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		token = strings.TrimSpace(strings.TrimSuffix(token, "."))
		if token != "" {
			items = append(items, token)
		}
	}
	return items
}

// AggregateShoppingItems adds the ingredients of rows to existing, keeping
// first appearance order and dropping exact duplicates.
func AggregateShoppingItems(existing []string, rows [][]string) []string {
	seen := make(map[string]struct{}, len(existing))
	out := make([]string, 0, len(existing))
	for _, item := range existing {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	for _, row := range rows {
		for _, item := range SplitIngredients(cell(row, colIngredients)) {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

// ParseNutritionalValues parses "calories,protein,fat,carbs". Anything other
// than exactly four numbers in range returns nil.
func ParseNutritionalValues(value string) *models.NutritionalValues {
	if value == "" {
		return nil
	}
	tokens := strings.Split(value, ",")
	if len(tokens) != 4 {
		return nil
	}
	var parsed [4]float64
	for i, token := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
		if err != nil || math.IsNaN(v) || v < minNutritionValue || v > maxNutritionValue {
			return nil
		}
		parsed[i] = v
	}
	return &models.NutritionalValues{
		Calories: parsed[0],
		Protein:  parsed[1],
		Fat:      parsed[2],
		Carbs:    parsed[3],
	}
}
