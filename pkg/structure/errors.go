package structure

import "errors"

var (
	// ErrEmptyPath is reported for a descriptor with an empty path
	ErrEmptyPath = errors.New("empty path")

	// ErrEmptySegment is reported for paths like "a//b", "/a" or "a/"
	ErrEmptySegment = errors.New("empty path segment")

	// ErrTypeConflict is reported when a path needs a folder where a file exists, or the reverse
	ErrTypeConflict = errors.New("node type conflict")

	ErrInvalidNode   = errors.New("invalid node")
	ErrRootNotFolder = errors.New("root node must be a folder")
)
