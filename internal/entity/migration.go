package entity

import (
	"context"

	"github.com/coursepulse/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Feedback{},
		&CommentClassification{},
		&FeedbackAnalysis{},
		&PointEntry{},
	)
}
