package internaltypes

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrSubmissionPending = errors.New("submission already in flight")
)
