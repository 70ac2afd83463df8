package getbasketsummary

const (
	queryType = "GetBasketSummary"
)

// Query asks for the summary of one basket.
type Query struct {
	BasketID string
}

// QueryType returns the type of this query for observability and routing purposes.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query.
func BuildQuery(basketID string) Query {
	return Query{BasketID: basketID}
}
