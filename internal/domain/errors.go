package domain

import "errors"

// Sentinel errors for the settlement core.
// Every failure condition a caller can act on maps to exactly one of
// these; services wrap them with context via fmt.Errorf("...: %w", err)
// and adapters match with errors.Is.
var (
	// ErrDuplicateProperty is returned when registering a property id
	// that already exists in the receiving component.
	ErrDuplicateProperty = errors.New("property already registered")

	// ErrInvalidInput wraps entity validation failures so adapters can
	// distinguish malformed caller input from internal faults.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a property, share pool, stakeholder
	// set or escrow does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the caller is neither the current
	// owner nor an authorized orchestrator.
	ErrUnauthorized = errors.New("caller not authorized")

	// ErrInsufficientPayment is returned when the attached payment does
	// not cover the share purchase cost.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrInsufficientBalance is returned when a holder sells more shares
	// than they hold.
	ErrInsufficientBalance = errors.New("insufficient share balance")

	// ErrSupplySaturated is returned when a purchase or allocation would
	// push circulating supply above the pool's total shares.
	ErrSupplySaturated = errors.New("share supply saturated")

	// ErrArithmeticOverflow is returned when monetary arithmetic would
	// overflow int64.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")

	// ErrLengthMismatch is returned when stakeholder input arrays have
	// differing lengths.
	ErrLengthMismatch = errors.New("input array length mismatch")

	// ErrPercentageSumInvalid is returned when stakeholder percentages
	// do not sum to exactly 10000 basis points.
	ErrPercentageSumInvalid = errors.New("stakeholder percentages must sum to 10000 basis points")

	// ErrActiveEscrowExists is returned when creating an escrow for a
	// property that already has one in the Active state.
	ErrActiveEscrowExists = errors.New("active escrow already exists for property")

	// ErrInvalidDeadline is returned when an escrow deadline is not in
	// the future.
	ErrInvalidDeadline = errors.New("escrow deadline must be in the future")

	// ErrAlreadyTerminal is returned when operating on an escrow that is
	// already Completed or Cancelled.
	ErrAlreadyTerminal = errors.New("escrow already in a terminal state")

	// ErrDeadlinePassed is returned when confirming an escrow after its
	// deadline; the caller should cancel instead.
	ErrDeadlinePassed = errors.New("escrow deadline has passed")

	// ErrNotYetExpired is returned when cancelling an escrow whose
	// deadline has not passed.
	ErrNotYetExpired = errors.New("escrow deadline has not passed")

	// ErrTransferRejected is returned by a payment gateway when the
	// recipient cannot accept funds. Any distribution containing a
	// rejected transfer rolls back entirely.
	ErrTransferRejected = errors.New("payment transfer rejected")
)
