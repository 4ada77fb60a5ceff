package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/coursepulse/backend/migration"
)

func (s *srv) startMigrate(ct *cli.Context) error {
	server.loadConfig()
	server.loadLogger()
	server.loadDatabase()

	ctx := s.newContext(context.Background())
	if err := migration.Migrate(ctx); err != nil {
		return err
	}

	s.logger.Infof("Migrations applied")
	return nil
}
