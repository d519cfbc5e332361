package feed

import (
	"errors"
	"fmt"
)

// ErrAuthenticationRequired is returned when a mutating operation is
// attempted without a viewer profile on the session.
var ErrAuthenticationRequired = errors.New("feed: authentication required")

// ValidationError reports a bad input caught before any network call. No
// cache state is touched when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("feed: invalid %s: %s", e.Field, e.Message)
}

// RemoteError reports a rejected remote operation. Status is the HTTP status
// of the response, Code the API error code when the server supplied one.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("feed: remote operation failed (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("feed: remote operation failed (%d): %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a RemoteError for a missing resource.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == 404
}
