package types

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrNeedNotFound     = errors.New("need not found")
	ErrDonationNotFound = errors.New("donation not found")
	ErrStoryNotFound    = errors.New("story not found")

	// ErrNeedUnavailable is the expected outcome when a claim loses the race:
	// the need is already in progress or closed. Callers should surface it,
	// not retry.
	ErrNeedUnavailable = errors.New("need is no longer available")

	// ErrNeedHasDonations guards referential integrity on delete.
	ErrNeedHasDonations = errors.New("need has dependent donations")

	ErrDonationNotPending = errors.New("donation is not pending")
	ErrDonationClosed     = errors.New("donation is already closed")

	ErrEmailTaken = errors.New("email already registered")
	ErrForbidden  = errors.New("not enough permissions")
)
