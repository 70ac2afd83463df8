package shell

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres goqu dialect
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // registers the sqlite3 goqu dialect

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

// TeamRow is one row of team_lookups.
type TeamRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	OwnerName string `json:"ownerName"`
}

// UserRow is one row of user_lookups.
type UserRow struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BasketSummaryRow is one row of basket_summaries.
type BasketSummaryRow struct {
	ID               string    `json:"id"`
	ProductCount     int       `json:"productCount"`
	DistinctProducts int       `json:"distinctProducts"`
	UpdatedUTC       time.Time `json:"updatedUtc"`
}

// Lookups holds the lookup repositories. They read projection tables only, never the event log.
type Lookups struct {
	Teams   TeamsLookup
	Users   UsersLookup
	Baskets BasketsLookup
}

// NewLookups creates the lookup repositories for dialect.
func NewLookups(dialect string) (Lookups, error) {
	if _, ok := schemaFileByDialect[dialect]; !ok {
		return Lookups{}, eventstore.ErrUnsupportedDialect
	}

	builder := goqu.Dialect(dialect)

	return Lookups{
		Teams:   TeamsLookup{builder: builder},
		Users:   UsersLookup{builder: builder},
		Baskets: BasketsLookup{builder: builder},
	}, nil
}

// TeamsLookup reads team_lookups.
type TeamsLookup struct {
	builder goqu.DialectWrapper
}

// FindByID returns the team row with id.
func (l TeamsLookup) FindByID(ctx context.Context, q eventstore.DBQuerier, id string) (TeamRow, bool, error) {
	return first(queryRows(ctx, q, l.selectTeams().Where(goqu.C(colID).Eq(id)), scanTeamRow))
}

// FindByName returns the team row with exactly name.
func (l TeamsLookup) FindByName(ctx context.Context, q eventstore.DBQuerier, name string) (TeamRow, bool, error) {
	return first(queryRows(ctx, q, l.selectTeams().Where(goqu.C(colName).Eq(name)), scanTeamRow))
}

// FindByOwnerIDs returns the teams owned by any of ownerIDs, ordered by name.
// No owner ids yield no rows.
func (l TeamsLookup) FindByOwnerIDs(ctx context.Context, q eventstore.DBQuerier, ownerIDs []string) ([]TeamRow, error) {
	if len(ownerIDs) == 0 {
		return []TeamRow{}, nil
	}

	return queryRows(ctx, q,
		l.selectTeams().
			Where(goqu.C(colOwnerID).In(ownerIDs)).
			Order(goqu.C(colName).Asc(), goqu.C(colID).Asc()),
		scanTeamRow,
	)
}

func (l TeamsLookup) selectTeams() *goqu.SelectDataset {
	return l.builder.From(TeamLookupsTable).Prepared(true).Select(colID, colName, colOwnerID, colOwnerName)
}

func scanTeamRow(rows eventstore.DBRows) (TeamRow, error) {
	var row TeamRow
	err := rows.Scan(&row.ID, &row.Name, &row.OwnerID, &row.OwnerName)

	return row, err
}

// UsersLookup reads user_lookups.
type UsersLookup struct {
	builder goqu.DialectWrapper
}

// FindByID returns the user row with id.
func (l UsersLookup) FindByID(ctx context.Context, q eventstore.DBQuerier, id string) (UserRow, bool, error) {
	return first(queryRows(ctx, q, l.selectUsers().Where(goqu.C(colID).Eq(id)), scanUserRow))
}

// FindByEmail returns the user row registered with email.
func (l UsersLookup) FindByEmail(ctx context.Context, q eventstore.DBQuerier, email string) (UserRow, bool, error) {
	return first(queryRows(ctx, q, l.selectUsers().Where(goqu.C(colEmail).Eq(email)), scanUserRow))
}

func (l UsersLookup) selectUsers() *goqu.SelectDataset {
	return l.builder.From(UserLookupsTable).Prepared(true).Select(colID, colName, colEmail)
}

func scanUserRow(rows eventstore.DBRows) (UserRow, error) {
	var row UserRow
	err := rows.Scan(&row.ID, &row.Name, &row.Email)

	return row, err
}

// BasketsLookup reads basket_summaries.
type BasketsLookup struct {
	builder goqu.DialectWrapper
}

// FindByID returns the summary row of the basket with id.
func (l BasketsLookup) FindByID(ctx context.Context, q eventstore.DBQuerier, id string) (BasketSummaryRow, bool, error) {
	query := l.builder.From(BasketSummariesTable).
		Prepared(true).
		Select(colID, colProductCount, colDistinctProducts, colUpdatedUTC).
		Where(goqu.C(colID).Eq(id))

	return first(queryRows(ctx, q, query, func(rows eventstore.DBRows) (BasketSummaryRow, error) {
		var row BasketSummaryRow
		if err := rows.Scan(&row.ID, &row.ProductCount, &row.DistinctProducts, &row.UpdatedUTC); err != nil {
			return BasketSummaryRow{}, err
		}

		row.UpdatedUTC = row.UpdatedUTC.UTC()

		return row, nil
	}))
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

func queryRows[T any](
	ctx context.Context,
	q eventstore.DBQuerier,
	query sqlBuilder,
	scan func(rows eventstore.DBRows) (T, error),
) ([]T, error) {

	sqlQuery, args, err := query.ToSQL()
	if err != nil {
		return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	rows, err := q.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, errors.Join(ErrQueryingLookupFailed, err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]T, 0)
	for rows.Next() {
		row, scanErr := scan(rows)
		if scanErr != nil {
			return nil, errors.Join(ErrScanningLookupRowFailed, scanErr)
		}

		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Join(ErrQueryingLookupFailed, err)
	}

	return result, nil
}

func first[T any](rows []T, err error) (T, bool, error) {
	var zero T
	if err != nil || len(rows) == 0 {
		return zero, false, err
	}

	return rows[0], true, nil
}
