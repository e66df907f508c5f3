package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Credit account status
type CreditStatus string

const (
	CreditStatusActive    CreditStatus = "ACTIVE"
	CreditStatusSettled   CreditStatus = "SETTLED"
	CreditStatusSuspended CreditStatus = "SUSPENDED"
)

// CreditAccount is a revolving credit facility extended to a customer:
// an approved ceiling, the currently drawn amount, and the credit terms.
type CreditAccount struct {
	CID                 string
	CreditID            string
	CreditAmount        decimal.Decimal // approved ceiling
	CurrentCreditAmount decimal.Decimal // amount currently drawn
	CreditPeriod        int             // days
	InterestRate        decimal.Decimal // percent
	Status              CreditStatus
}

// CanAddExtraCredit reports whether a supplementary credit grant may be
// layered on the account. Extra credit stacks only on an account with no live
// outstanding balance, preventing uncontrolled exposure growth.
func (a *CreditAccount) CanAddExtraCredit() bool {
	return a.Status != CreditStatusActive
}

// CanUpgrade reports whether the credit terms may be revised. The model always
// permits it; who may call it is gated by the access evaluator.
func (a *CreditAccount) CanUpgrade() bool {
	return true
}

// AmountDue is the settle-up figure pre-filled into payment forms:
// ceiling minus currently drawn amount. A negative result means the ledger
// violates the ceiling invariant and is surfaced as ErrLedgerCorrupt rather
// than clamped.
func (a *CreditAccount) AmountDue() (decimal.Decimal, error) {
	due := a.CreditAmount.Sub(a.CurrentCreditAmount)
	if due.IsNegative() {
		return decimal.Zero, ErrLedgerCorrupt
	}
	return due, nil
}

// LedgerTransaction is one append-only entry in the account's chronological
// ledger: a drawdown, repayment, or credit-term revision. The Previous/Upgraded
// pairs are set only on term-revision entries; nil means "Initial".
type LedgerTransaction struct {
	TransactionID string
	Amount        decimal.Decimal
	Remaining     decimal.Decimal // unpaid portion, reduced by payment clearings
	Date          time.Time
	DueDate       time.Time
	Description   string

	PreviousCreditAmount *decimal.Decimal
	UpgradedCreditAmount *decimal.Decimal
	PreviousInterestRate *decimal.Decimal
	UpgradedInterestRate *decimal.Decimal
	PreviousCreditPeriod *int
	UpgradedCreditPeriod *int
}

// IsTermRevision reports whether the entry records a credit-term change
func (t *LedgerTransaction) IsTermRevision() bool {
	return t.UpgradedCreditAmount != nil || t.UpgradedInterestRate != nil || t.UpgradedCreditPeriod != nil
}

// ExtraCredit is a supplementary, time-boxed grant on top of the base account
type ExtraCredit struct {
	CreditAmount decimal.Decimal
	CreditPeriod int
	InterestRate decimal.Decimal
}

// TermRevision captures an upgrade/downgrade of the credit terms. Zero-valued
// fields keep the current term.
type TermRevision struct {
	CreditAmount decimal.Decimal
	CreditPeriod int
	InterestRate decimal.Decimal
}

// ApplyRevision atomically replaces the account terms with the revised ones
// and returns the Previous/Upgraded bookkeeping for the ledger entry. This is
// the one place the ceiling invariant may be crossed mid-flight; the caller
// persists account and ledger entry in a single transaction.
func (a *CreditAccount) ApplyRevision(rev TermRevision) LedgerTransaction {
	prevAmount := a.CreditAmount
	prevRate := a.InterestRate
	prevPeriod := a.CreditPeriod

	entry := LedgerTransaction{
		PreviousCreditAmount: &prevAmount,
		PreviousInterestRate: &prevRate,
		PreviousCreditPeriod: &prevPeriod,
	}

	if !rev.CreditAmount.IsZero() {
		a.CreditAmount = rev.CreditAmount
	}
	if rev.CreditPeriod > 0 {
		a.CreditPeriod = rev.CreditPeriod
	}
	if !rev.InterestRate.IsZero() {
		a.InterestRate = rev.InterestRate
	}

	upAmount := a.CreditAmount
	upRate := a.InterestRate
	upPeriod := a.CreditPeriod
	entry.UpgradedCreditAmount = &upAmount
	entry.UpgradedInterestRate = &upRate
	entry.UpgradedCreditPeriod = &upPeriod
	return entry
}
