package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell/config"
)

var errInvalidRenamers = errors.New("renamers must be at least 1")

func run(ctx context.Context, opts options, local slog.Handler) error {
	if opts.renamers < 1 {
		return errInvalidRenamers
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := config.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	obs := newObservability(opts.observabilityEnabled, local)
	defer func() {
		if shutdownErr := obs.shutdown(context.Background()); shutdownErr != nil {
			obs.logger.Warn("observability shutdown failed", "error", shutdownErr.Error())
		}
	}()

	obs.logger.Info("database opened", "dialect", db.Dialect, "adapter", db.Adapter)

	servicesOptions := []shell.ServicesOption{shell.WithLogger(obs.logger)}
	if obs.metrics != nil {
		servicesOptions = append(servicesOptions, shell.WithMetrics(obs.metrics))
	}

	services, err := shell.NewServices(db.Provider, db.Dialect, servicesOptions...)
	if err != nil {
		return err
	}

	if err = services.ApplySchema(ctx); err != nil {
		return err
	}

	h, err := newHandlers(services, obs)
	if err != nil {
		return err
	}

	if err = runBasketScenario(ctx, h, obs.logger); err != nil {
		return err
	}

	if err = runTeamScenario(ctx, h, obs.logger, opts.renamers); err != nil {
		return err
	}

	return obs.report(ctx)
}
