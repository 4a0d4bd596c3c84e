package service

import "errors"

var (
	// Account lifecycle
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("account already verified")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Profiles and projects
	ErrUsernameTaken   = errors.New("username already taken")
	ErrInvalidUsername = errors.New("invalid username")
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("user already has a profile")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidTemplate = errors.New("invalid template")

	// Admin dispatch
	ErrInvalidAction         = errors.New("invalid action")
	ErrImpersonationDisabled = errors.New("impersonation is disabled outside development")
)
