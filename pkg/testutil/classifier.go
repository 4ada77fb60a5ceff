package testutil

import (
	"context"

	"github.com/coursepulse/backend/pkg/api/classifier"
	"github.com/coursepulse/backend/pkg/errorx"
)

type MockClassifierCaller struct {
	ClassifyFunc func(ctx context.Context, comment string) (classifier.Classification, error)

	Calls int
}

func (m *MockClassifierCaller) Classify(
	ctx context.Context, comment string,
) (classifier.Classification, error) {
	m.Calls++
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, comment)
	}

	return classifier.Classification{}, errorx.New(errorx.NotImplemented, "Not implemented")
}
