package testutil

import (
	"context"

	"github.com/coursepulse/backend/pkg/errorx"
	"github.com/coursepulse/backend/pkg/pubsub"
)

type PublishedPack struct {
	Topic string
	Pack  *pubsub.Pack
}

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	Published []PublishedPack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		if err := m.PublishFunc(ctx, topic, pack); err != nil {
			return err
		}
	}

	m.Published = append(m.Published, PublishedPack{Topic: topic, Pack: pack})
	return nil
}

func (m *MockPublisher) Stop(ctx context.Context) error {
	return nil
}

type FailingPublisher struct{}

func (p *FailingPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	return errorx.New(errorx.Unavailable, "Publisher is unavailable")
}

func (p *FailingPublisher) Stop(ctx context.Context) error {
	return nil
}
