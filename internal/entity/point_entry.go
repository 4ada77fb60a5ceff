package entity

import "github.com/coursepulse/backend/pkg/enum"

type PointSourceType string

var (
	SourceSubmitFeedback = enum.New(PointSourceType("submit_feedback"))
	SourceReferral       = enum.New(PointSourceType("referral"))
)

// PointEntry is one grant in the reward ledger. The (user_id, source_type,
// reference_id) triple is unique; amount changes are applied in place and a
// zeroed grant keeps its row for audit history.
type PointEntry struct {
	SnowflakeBase

	UserID string `gorm:"uniqueIndex:idx_point_entries_key"`
	User   User   `gorm:"foreignKey:UserID"`

	SourceType  PointSourceType `gorm:"uniqueIndex:idx_point_entries_key;size:32"`
	ReferenceID string          `gorm:"uniqueIndex:idx_point_entries_key"`

	Amount  int
	Comment string
}
