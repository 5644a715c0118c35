package models

import "errors"

var (
	// ErrInvalidPurchase marks a purchase record rejected by validation.
	ErrInvalidPurchase = errors.New("invalid purchase")
	// ErrInvalidPayment marks a payment record rejected by validation.
	ErrInvalidPayment = errors.New("invalid payment record")
	// ErrInvalidInput marks any other malformed request input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
)

var (
	// ErrUnauthorized is returned for bad credentials or tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when a unique value is already taken.
	ErrConflict = errors.New("already exists")
	// ErrCorruptRecord marks a stored row that no longer passes validation.
	// It is a server fault, never the caller's.
	ErrCorruptRecord = errors.New("stored record failed validation")
)
