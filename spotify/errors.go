package spotify

import "fmt"

// An AuthError reports a failed token exchange or a 401/403 from the API.
// It is fatal to a run: there is no point retrying the remaining stages
// with credentials the API has rejected.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (status %d): %s", e.Status, e.Message)
}

// An APIError reports a non-auth failure of one API call.
type APIError struct {
	Status   int
	Endpoint string
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error on %s (status %d): %s", e.Endpoint, e.Status, e.Message)
}
