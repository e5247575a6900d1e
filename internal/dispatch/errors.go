package dispatch

import "errors"

var (
	ErrWaveNotFound      = errors.New("wave not found")
	ErrWaveNotPicked     = errors.New("wave is not fully picked")
	ErrAlreadyDispatched = errors.New("wave already dispatched")
)
