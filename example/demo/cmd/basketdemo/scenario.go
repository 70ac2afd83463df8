package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/addproducttobasket"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/createbasket"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/createteam"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/registeruser"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/removeproductfrombasket"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/renameteam"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/query/findteamsbyowners"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/query/getbasketsummary"
)

func runBasketScenario(ctx context.Context, h handlers, logger *slog.Logger) error {
	basketID, err := h.createBasket.Handle(ctx, createbasket.BuildCommand())
	if err != nil {
		return err
	}

	for _, productID := range []string{"apple", "apple", "pear"} {
		if _, err = h.addProduct.Handle(ctx, addproducttobasket.BuildCommand(basketID, productID)); err != nil {
			return err
		}
	}

	// Removing a product that was never added is accepted and changes nothing.
	for _, productID := range []string{"pear", "kiwi"} {
		if _, err = h.removeProduct.Handle(ctx, removeproductfrombasket.BuildCommand(basketID, productID)); err != nil {
			return err
		}
	}

	result, err := h.basketSummary.Handle(ctx, getbasketsummary.BuildQuery(basketID))
	if err != nil {
		return err
	}

	logger.Info("basket summary",
		"basket_id", basketID,
		"found", result.Found,
		"product_count", result.Summary.ProductCount,
		"distinct_products", result.Summary.DistinctProducts,
	)

	return nil
}

// runTeamScenario renames one team from several goroutines at once.
// Every rename is applied at the version it was decided on, conflicting ones are retried.
func runTeamScenario(ctx context.Context, h handlers, logger *slog.Logger, renamers int) error {
	run := uuid.NewString()[:8]

	ownerID, err := h.registerUser.Handle(ctx, registeruser.BuildCommand("Ada Lovelace", "ada+"+run+"@example.com"))
	if err != nil {
		return err
	}

	teamID, err := h.createTeam.Handle(ctx, createteam.BuildCommand("Analytical Engine "+run, ownerID))
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for i := range renamers {
		name := fmt.Sprintf("Difference Engine %s-%d", run, i)

		group.Go(func() error {
			_, renameErr := h.renameTeam.Handle(groupCtx, renameteam.BuildCommand(teamID, name, ownerID))
			return renameErr
		})
	}

	if err = group.Wait(); err != nil {
		return err
	}

	result, err := h.teamsByOwners.Handle(ctx, findteamsbyowners.BuildQuery(ownerID))
	if err != nil {
		return err
	}

	for _, team := range result.Teams {
		logger.Info("team", "team_id", team.ID, "name", team.Name, "owner_name", team.OwnerName)
	}

	return nil
}
