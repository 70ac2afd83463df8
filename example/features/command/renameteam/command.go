package renameteam

import "strings"

const (
	commandType = "RenameTeam"
)

// Command represents the intent to give a team a new name.
type Command struct {
	TeamID      string
	Name        string
	UpdatedByID string
}

// CommandType returns the type of this command for observability and routing purposes.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(teamID string, name string, updatedByID string) Command {
	return Command{
		TeamID:      teamID,
		Name:        strings.TrimSpace(name),
		UpdatedByID: updatedByID,
	}
}
