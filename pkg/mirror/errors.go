package mirror

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx mirror node response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mirror node request failed with status %d: %s", e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a mirror node 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}
