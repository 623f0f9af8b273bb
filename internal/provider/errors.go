package provider

import "fmt"

// AuthRequiredError is returned when no cached client, stored token or
// environment credentials are available.
type AuthRequiredError struct {
	// Command is the setup command to suggest.
	Command string
}

func (e *AuthRequiredError) Error() string {
	cmd := e.Command
	if cmd == "" {
		cmd = "monarch-mcp login"
	}
	return fmt.Sprintf(`Authentication needed! Run %q in a terminal to log in,
or call the authenticate_with_google tool. Alternatively set MONARCH_EMAIL
and MONARCH_PASSWORD (and MONARCH_MFA_SECRET if MFA is enabled).`, cmd)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthRequiredError) Is(target error) bool {
	_, ok := target.(*AuthRequiredError)
	return ok
}
