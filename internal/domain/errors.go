package domain

import "errors"

var (
	ErrInvalidQuestion = errors.New("invalid question")
	ErrRetrieval       = errors.New("record retrieval failed")
	ErrModel           = errors.New("model call failed")
	ErrNotFound        = errors.New("not found")
)
