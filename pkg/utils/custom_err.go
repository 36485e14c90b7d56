package utils

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotActive   = errors.New("account not active")
	ErrOAuthOnlyAccount   = errors.New("account has no password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPasswordTooShort   = errors.New("password too short")

	ErrInviteNotFound = errors.New("invite not found or already used")
	ErrInviteExpired  = errors.New("invite expired")

	ErrUserNotFound     = errors.New("user not found")
	ErrUserDataNotFound = errors.New("user data not found")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrEntityNotFound   = errors.New("entity not found")

	ErrInvalidProduct   = errors.New("invalid product id")
	ErrNoStripeCustomer = errors.New("no billing customer for user")

	ErrMissingFields = errors.New("missing required fields")

	ErrDatabaseError   = errors.New("database error")
	ErrUpstreamFailure = errors.New("upstream provider failure")
)
