package createteam

import "strings"

const (
	commandType = "CreateTeam"
)

// Command represents the intent to create a team owned by an existing user.
type Command struct {
	Name    string
	OwnerID string
}

// CommandType returns the type of this command for observability and routing purposes.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(name string, ownerID string) Command {
	return Command{
		Name:    strings.TrimSpace(name),
		OwnerID: ownerID,
	}
}
