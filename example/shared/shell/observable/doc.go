// Package observable provides wrappers that instrument command and query handlers
// with logging, metrics and tracing while the handlers themselves stay free of observability code.
//
// The wrappers are applied externally at wiring time:
//
//	coreHandler := createbasket.NewCommandHandler(services)
//
//	handler, err := observable.NewCommandWrapper[createbasket.Command, string](
//		coreHandler,
//		observable.WithCommandLogging[createbasket.Command, string](logger),
//		observable.WithCommandMetrics[createbasket.Command, string](collector),
//	)
//
//	basketID, err := handler.Handle(ctx, createbasket.BuildCommand())
//
// A wrapped handler satisfies the same cqrs.CommandHandler or cqrs.QueryHandler interface as the
// handler it wraps, so wrapping is invisible to callers.
package observable
