package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/coursepulse/backend/internal/entity"
	"github.com/coursepulse/backend/internal/repository"
)

var (
	Referrer = entity.User{
		Base:  entity.Base{ID: "referrer"},
		Name:  "referrer",
		Email: "referrer@example.edu",
	}

	User1 = entity.User{
		Base:       entity.Base{ID: "user1"},
		Name:       "user1",
		Email:      "user1@example.edu",
		ReferredBy: sql.NullString{Valid: true, String: Referrer.ID},
	}

	User2 = entity.User{
		Base:  entity.Base{ID: "user2"},
		Name:  "user2",
		Email: "user2@example.edu",
	}

	Feedback1 = entity.Feedback{
		Base:       entity.Base{ID: "feedback1"},
		UserID:     User1.ID,
		CourseCode: "CS101",
		Rating:     5,
		Comment: sql.NullString{
			Valid:  true,
			String: "Great lectures and very fair grading, highly recommended.",
		},
		ApprovedAt: sql.NullTime{Valid: true, Time: time.Now()},
	}

	Feedback2 = entity.Feedback{
		Base:       entity.Base{ID: "feedback2"},
		UserID:     User2.ID,
		CourseCode: "CS101",
		Rating:     3,
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertFeedbacks(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	for _, user := range []entity.User{Referrer, User1, User2} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func InsertFeedbacks(ctx context.Context) {
	feedbackRepo := repository.NewFeedbackRepository()

	for _, feedback := range []entity.Feedback{Feedback1, Feedback2} {
		feedback := feedback
		if err := feedbackRepo.Create(ctx, &feedback); err != nil {
			panic(err)
		}
	}
}
