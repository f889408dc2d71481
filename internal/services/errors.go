// Package services defines the business logic for order intake, lifecycle
// transitions, thread messages, reviews, and broadcasts. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing bot replies is performed by the Telegram
// handlers. End users never see technical errors.
package services

import "errors"

var (
	// ErrOrderNotFound indicates that the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyText is returned when a description, thread message, review
	// comment, or broadcast draft is blank after trimming.
	ErrEmptyText = errors.New("text is empty")

	// ErrTooLong is returned when a submitted text exceeds the configured
	// rune limit.
	ErrTooLong = errors.New("text too long")

	// ErrInvalidStatus is returned when a lifecycle transition names an
	// unknown status value.
	ErrInvalidStatus = errors.New("unknown order status")

	// ErrStatusLocked is returned when a transition out of a terminal
	// status (completed, cancelled) is attempted while the terminal-state
	// guard is enabled.
	ErrStatusLocked = errors.New("order is in a terminal status")

	// ErrInvalidRating is returned when a review rating falls outside [1,5].
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrReviewForbidden is returned when a user attempts to review an
	// order they do not own or one that is not completed yet.
	ErrReviewForbidden = errors.New("cannot review this order")
)
