package utils

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidPage             = errors.New("invalid page parameter")
	ErrInvalidPageSize         = errors.New("invalid page size parameter")
	ErrDatabaseError           = errors.New("database error")
	ErrPlanNotFound            = errors.New("travel plan not found")
	ErrExternalService         = errors.New("external service failure")
	ErrUnparseableModelOutput  = errors.New("model output could not be parsed")
	ErrInvalidOrEmptyItinerary = errors.New("model returned an invalid or empty itinerary")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrRateLimited             = errors.New("rate limited")
)

// UnparseableModelOutputError keeps the raw reply so it can be logged or inspected.
type UnparseableModelOutputError struct {
	Raw string
	Err error
}

func (e *UnparseableModelOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", ErrUnparseableModelOutput.Error(), e.Err)
	}
	return ErrUnparseableModelOutput.Error()
}

func (e *UnparseableModelOutputError) Unwrap() error {
	return ErrUnparseableModelOutput
}
