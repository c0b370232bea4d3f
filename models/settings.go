package models

import "time"

// ParserSettings are per-user spreadsheet reading options.
type ParserSettings struct {
	UserID           string    `bson:"userId" json:"userId"`
	SkipRowsCount    int       `bson:"skipRowsCount" json:"skipRowsCount"` // leading header rows to ignore
	MaxSkipRowsCount int       `bson:"-" json:"maxSkipRowsCount"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}
