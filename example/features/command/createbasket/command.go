package createbasket

const (
	commandType = "CreateBasket"
)

// Command represents the intent to open a new, empty shopping basket.
type Command struct{}

// CommandType returns the type of this command for observability and routing purposes.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand() Command {
	return Command{}
}
