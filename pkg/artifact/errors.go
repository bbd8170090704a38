package artifact

import "errors"

var (
	ErrEmptyBytecode   = errors.New("bytecode artifact is empty")
	ErrInvalidBytecode = errors.New("bytecode artifact is not hex encoded")
)
