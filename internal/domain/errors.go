package domain

import "errors"

var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrNotGroupMember     = errors.New("user is not a member of this group")
	ErrNothingToSettle    = errors.New("no unsettled expenses to settle")

	// ErrUnbalancedLedger means the balances of a currency did not net to
	// zero, so no transactions can be trusted.
	ErrUnbalancedLedger = errors.New("ledger is unbalanced")

	// ErrInvariantViolation wraps a computed settlement that failed its own
	// validation. It is never caused by caller input.
	ErrInvariantViolation = errors.New("settlement invariant violated")

	// ErrLockTimeout is returned when another settlement holds the group lock
	// for longer than the configured wait.
	ErrLockTimeout = errors.New("timed out waiting for group lock")
)
