package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/coursepulse/backend/pkg/kafka"
)

func (s *srv) startWorker(ct *cli.Context) error {
	server.loadConfig()
	server.loadLogger()
	server.loadDatabase()

	ctx, stop := signal.NotifyContext(s.newContext(context.Background()),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server.loadRedis(ctx)
	server.loadPublisher()
	server.loadRepos()
	server.loadDomains()

	subscriber, err := kafka.NewSubscriber(
		"coursepulse-bookkeeping",
		[]string{s.configs.Kafka.Addr},
		[]string{s.configs.Bookkeeping.Topic},
		s.worker.Handle,
	)
	if err != nil {
		return err
	}
	defer subscriber.Stop(ctx)

	subscriber.Subscribe(ctx)
	s.logger.Infof("Bookkeeping worker started")

	s.worker.Run(ctx)
	return nil
}
