package repositories

import (
	"errors"
)

var (
	ErrJobNotFound   = errors.New("the requested job was not found")
	ErrJobNotPending = errors.New("the job is no longer pending")
)
