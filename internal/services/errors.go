package services

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrNoAgentAssigned     = errors.New("no agent assigned to property")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
	ErrPropertyUnavailable = errors.New("property unavailable")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrAssignmentConflict  = errors.New("client assignment changed concurrently")
)
