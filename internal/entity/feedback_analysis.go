package entity

import "database/sql"

// FeedbackAnalysis holds the per-feedback categorization result. At most one
// row exists per feedback item; re-analysis mutates the row in place.
type FeedbackAnalysis struct {
	Base

	FeedbackID string   `gorm:"uniqueIndex"`
	Feedback   Feedback `gorm:"foreignKey:FeedbackID"`

	Classification `gorm:"embedded"`

	WordCount int

	// ReviewedAt is set by a human reviewer and is independent of scoring.
	ReviewedAt sql.NullTime
}
