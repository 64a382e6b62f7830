package inmemory

import "errors"

var (
	// ErrPoolAlreadyExists ...
	ErrPoolAlreadyExists = errors.New("pool already exists")
	// ErrSwapAlreadyExists ...
	ErrSwapAlreadyExists = errors.New("swap already exists")
)
