package auctionerrors

import "errors"

// Store-level errors
var (
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrBidderNotFound    = errors.New("bidder not found")
	ErrBidNotFound       = errors.New("bid not found")
	ErrDuplicateUsername = errors.New("username is already taken")
)

// business logic errors
var (
	ErrInvalidParams        = errors.New("invalid auction parameters")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrAuctionNotActive     = errors.New("auction is not accepting bids")
	ErrInvalidTransition    = errors.New("invalid auction state transition")
	ErrBidTooLow            = errors.New("bid amount below auction minimum")
	ErrBidMustExceedCurrent = errors.New("bid must exceed current bid")
	ErrIncrementTooSmall    = errors.New("bid increment below auction minimum")
)

// funds errors, raised at the atomic-update boundary
var (
	ErrInsufficientFunds     = errors.New("insufficient available funds")
	ErrInsufficientHeldFunds = errors.New("insufficient held funds")
)

// ErrContended means a lease for the requested operation is held elsewhere.
// It is retryable, not a logic failure.
var ErrContended = errors.New("operation already in progress, retry later")
