package service

import "errors"

var (
	ErrValidation = errors.New("validation")

	// Login failures are distinct on purpose: the storefront tells the
	// user whether the account exists or the password was wrong.
	ErrUnknownEmail  = errors.New("that user doesn't exist")
	ErrWrongPassword = errors.New("wrong password")

	ErrEmailTaken = errors.New("email already registered")

	// ErrSessionExpired covers every way a refresh can fail: bad token,
	// revoked, expired, unknown JTI. The shopper just logs in again.
	ErrSessionExpired = errors.New("session expired")
	ErrNotFound   = errors.New("not found")
	ErrEmptyCart  = errors.New("cart is empty")
	ErrPayment    = errors.New("payment provider")
)
