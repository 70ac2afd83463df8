package registeruser

import "strings"

const (
	commandType = "RegisterUser"
)

// Command represents the intent to register a new user.
type Command struct {
	Name  string
	Email string
}

// CommandType returns the type of this command for observability and routing purposes.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. Surrounding whitespace is trimmed and the email is lower-cased.
func BuildCommand(name string, email string) Command {
	return Command{
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
	}
}
