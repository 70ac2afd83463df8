package removeproductfrombasket

const (
	commandType = "RemoveProductFromBasket"
)

// Command represents the intent to change the amount of one product in a basket by one unit.
type Command struct {
	BasketID  string
	ProductID string
}

// CommandType returns the type of this command for observability and routing purposes.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(basketID string, productID string) Command {
	return Command{
		BasketID:  basketID,
		ProductID: productID,
	}
}
