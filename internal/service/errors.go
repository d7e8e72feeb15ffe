package service

import "errors"

var (
	ErrChildNotFound    = errors.New("child not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrOutcomeNotFound  = errors.New("outcome not found")

	ErrEmailTaken         = errors.New("email already taken")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrCaregiverNotFound  = errors.New("caregiver not found")
)
