package maze

import "errors"

var (
	// ErrInvalidSize is returned when a maze is requested with n < MinSize
	ErrInvalidSize = errors.New("maze: invalid size")
	// ErrMalformedMaze is returned when a grid does not form a spanning tree rooted at (0,0)
	ErrMalformedMaze = errors.New("maze: malformed maze")
	// ErrInvalidPreset is returned by ValidatePreset
	ErrInvalidPreset = errors.New("maze: invalid preset")
	// ErrUnknownStrategy is returned for an unrecognized generation strategy name
	ErrUnknownStrategy = errors.New("maze: unknown strategy")
)
