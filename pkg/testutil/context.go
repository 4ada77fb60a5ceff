package testutil

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/coursepulse/backend/config"
	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/pkg/logger"
	"github.com/coursepulse/backend/pkg/xcontext"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "test",
		Bookkeeping: config.BookkeepingConfigs{
			Topic:         "cache_usage",
			FlushInterval: time.Second,
			EvictAfter:    24 * time.Hour,
			EvictInterval: time.Minute,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}
