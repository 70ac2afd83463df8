package main

import (
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/addproducttobasket"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/createbasket"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/createteam"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/registeruser"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/removeproductfrombasket"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/renameteam"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/query/findteamsbyowners"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/query/getbasketsummary"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell/observable"
)

// handlers are the feature handlers, each wrapped with the demo's observability.
type handlers struct {
	createBasket  cqrs.CommandHandler[createbasket.Command, string]
	addProduct    cqrs.CommandHandler[addproducttobasket.Command, cqrs.NoResult]
	removeProduct cqrs.CommandHandler[removeproductfrombasket.Command, cqrs.NoResult]
	registerUser  cqrs.CommandHandler[registeruser.Command, string]
	createTeam    cqrs.CommandHandler[createteam.Command, string]
	renameTeam    cqrs.CommandHandler[renameteam.Command, cqrs.NoResult]
	basketSummary cqrs.QueryHandler[getbasketsummary.Query, getbasketsummary.Result]
	teamsByOwners cqrs.QueryHandler[findteamsbyowners.Query, findteamsbyowners.Result]
}

func newHandlers(services shell.Services, obs observability) (handlers, error) {
	var (
		h   handlers
		err error
	)

	if h.createBasket, err = wrapCommand[createbasket.Command, string](createbasket.NewCommandHandler(services), obs); err != nil {
		return handlers{}, err
	}

	if h.addProduct, err = wrapCommand[addproducttobasket.Command, cqrs.NoResult](addproducttobasket.NewCommandHandler(services), obs); err != nil {
		return handlers{}, err
	}

	if h.removeProduct, err = wrapCommand[removeproductfrombasket.Command, cqrs.NoResult](removeproductfrombasket.NewCommandHandler(services), obs); err != nil {
		return handlers{}, err
	}

	if h.registerUser, err = wrapCommand[registeruser.Command, string](registeruser.NewCommandHandler(services), obs); err != nil {
		return handlers{}, err
	}

	if h.createTeam, err = wrapCommand[createteam.Command, string](createteam.NewCommandHandler(services), obs); err != nil {
		return handlers{}, err
	}

	if h.renameTeam, err = wrapCommand[renameteam.Command, cqrs.NoResult](renameteam.NewCommandHandler(services), obs); err != nil {
		return handlers{}, err
	}

	if h.basketSummary, err = wrapQuery[getbasketsummary.Query, getbasketsummary.Result](getbasketsummary.NewQueryHandler(services), obs); err != nil {
		return handlers{}, err
	}

	if h.teamsByOwners, err = wrapQuery[findteamsbyowners.Query, findteamsbyowners.Result](findteamsbyowners.NewQueryHandler(services), obs); err != nil {
		return handlers{}, err
	}

	return h, nil
}

func wrapCommand[C cqrs.Command, R any](handler cqrs.CommandHandler[C, R], obs observability) (cqrs.CommandHandler[C, R], error) {
	wrapper, err := observable.NewCommandWrapper[C, R](
		handler,
		observable.WithCommandLogging[C, R](obs.logger),
		observable.WithCommandMetrics[C, R](obs.metrics),
		observable.WithCommandTracing[C, R](obs.tracing),
	)
	if err != nil {
		return nil, err
	}

	return wrapper, nil
}

func wrapQuery[Q cqrs.Query, R any](handler cqrs.QueryHandler[Q, R], obs observability) (cqrs.QueryHandler[Q, R], error) {
	wrapper, err := observable.NewQueryWrapper[Q, R](
		handler,
		observable.WithQueryLogging[Q, R](obs.logger),
		observable.WithQueryMetrics[Q, R](obs.metrics),
		observable.WithQueryTracing[Q, R](obs.tracing),
	)
	if err != nil {
		return nil, err
	}

	return wrapper, nil
}
