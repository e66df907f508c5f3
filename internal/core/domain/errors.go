package domain

import "errors"

// Permission errors
var (
	ErrEmptyRoleName    = errors.New("role name is required")
	ErrEmptyModuleName  = errors.New("module name is required")
	ErrEmptyPermissions = errors.New("permission entry grants no access")
	ErrUnknownAction    = errors.New("unknown permission action")
)

// Credit account errors
var (
	ErrCreditStillActive  = errors.New("credit account carries an active balance")
	ErrNothingOutstanding = errors.New("no outstanding amount on credit account")
	ErrLedgerCorrupt      = errors.New("ledger integrity violation: outstanding exceeds ceiling")
	ErrPaymentExceedsDue  = errors.New("payment amount exceeds outstanding balance")
	ErrNonPositiveAmount  = errors.New("amount must be greater than zero")
)

// Payment and verification errors
var (
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrSettlementNotFound      = errors.New("settlement not found")
	ErrMissingChequeEvidence   = errors.New("cheque evidence is incomplete")
	ErrMissingTransferEvidence = errors.New("account transfer evidence is incomplete")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
	ErrVerificationConflict    = errors.New("verification already resolved")
	ErrReasonRequired          = errors.New("reason is required for failed verification")
	ErrInvalidDecision         = errors.New("invalid verification decision")
	ErrOperationInFlight       = errors.New("another operation is in flight for this account")
)
