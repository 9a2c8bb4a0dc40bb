package service

import "errors"

var (
	ErrSessionNotFound      = errors.New("maze not found")
	ErrSessionAlreadyExists = errors.New("maze already exists")
	ErrPresetNotFound       = errors.New("preset not found")
	ErrInvalidMove          = errors.New("invalid move")
)
