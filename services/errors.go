package services

import "errors"

// Sentinel errors the controllers map onto the HTTP error taxonomy.
var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrInvalidToken     = errors.New("invalid or expired token")

	ErrInvalidTitle   = errors.New("title is required")
	ErrInvalidStatus  = errors.New("status must be one of: inProgress, paused, done")
	ErrInvalidDueDate = errors.New("dueDate must be a valid RFC3339 date")
	ErrInvalidTaskID  = errors.New("taskId is required")

	// ErrProfileNotFound is the failed-precondition case: the progression
	// evaluator cannot run without a profile document.
	ErrProfileNotFound = errors.New("user profile does not exist")
	ErrTaskNotFound    = errors.New("task not found for this user")
	ErrUserNotFound    = errors.New("user not found")
)
