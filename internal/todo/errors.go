package todo

import "errors"

var (
	ErrDuplicateID = errors.New("duplicate task id")
	ErrNotFound    = errors.New("task not found")
	ErrParse       = errors.New("cannot parse task")
)
