package mutate

import "errors"

var (
	// ErrInvalidInput indicates a required field was empty; raised before any
	// request is issued.
	ErrInvalidInput = errors.New("missing required field")
	// ErrProductNotFound indicates the product vanished between the
	// lookup-or-create step and the id resolution step.
	ErrProductNotFound = errors.New("product not found after create")
)
