package booking

import (
	"errors"
	"fmt"
)

const genericFailure = "Something went wrong"

// ServiceError is a non-2xx reply from the booking service, carrying whatever
// message field the service put in the body.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("booking service: %s (status=%d)", e.Message, e.Status)
	}
	return fmt.Sprintf("booking service error (status=%d)", e.Status)
}

// ErrorMessage extracts a user-facing message from a submission error,
// falling back to a generic one when the error carries nothing readable.
func ErrorMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return genericFailure
}
