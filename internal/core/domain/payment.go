package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods
type PaymentMethod string

const (
	MethodCash            PaymentMethod = "CASH"
	MethodCheque          PaymentMethod = "CHEQUE"
	MethodAccountTransfer PaymentMethod = "ACCOUNT_TRANSFER"
)

// ParsePaymentMethod validates a payment method string
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case MethodCash:
		return MethodCash, nil
	case MethodCheque:
		return MethodCheque, nil
	case MethodAccountTransfer:
		return MethodAccountTransfer, nil
	}
	return "", ErrInvalidPaymentMethod
}

// RequiresVerification reports whether the method resolves asynchronously.
// Cash settles synchronously; cheque and transfer stay provisional until the
// verification workflow reaches a terminal decision.
func (m PaymentMethod) RequiresVerification() bool {
	return m == MethodCheque || m == MethodAccountTransfer
}

// Payment status
type PaymentStatus string

const (
	PaymentStatusPending             PaymentStatus = "PENDING"
	PaymentStatusSuccess             PaymentStatus = "SUCCESS"
	PaymentStatusFailed              PaymentStatus = "FAILED"
	PaymentStatusPendingVerification PaymentStatus = "PENDING_VERIFICATION"
	PaymentStatusFailedVerification  PaymentStatus = "FAILED_VERIFICATION"
	PaymentStatusVerified            PaymentStatus = "VERIFIED"
)

// Settlement status
const (
	SettlementStatusPending = "PENDING"
	SettlementStatusPaid    = "PAID"
	SettlementStatusFailed  = "FAILED"
)

// ChequeEvidence is the mandatory collateral for cheque payments
type ChequeEvidence struct {
	ChequeNumber       string
	BankName           string
	ChequeIssuedDate   time.Time
	ChequeReceivedDate time.Time
	ChequeImagePath    string
}

// Validate rejects incomplete cheque evidence before anything is persisted
func (e *ChequeEvidence) Validate() error {
	if e == nil || e.ChequeNumber == "" || e.BankName == "" || e.ChequeImagePath == "" {
		return ErrMissingChequeEvidence
	}
	if e.ChequeIssuedDate.IsZero() || e.ChequeReceivedDate.IsZero() {
		return ErrMissingChequeEvidence
	}
	return nil
}

// TransferEvidence is the mandatory metadata for account transfer payments
type TransferEvidence struct {
	UTR                   string
	ReferenceID           string
	ToAccount             string
	FromAccount           string
	PaymentDate           time.Time
	Remarks               string
	Network               string
	ManualReleaseRequired bool
	TransactionStatus     string
	ReceiptPath           string
}

// Validate rejects incomplete transfer evidence before anything is persisted
func (e *TransferEvidence) Validate() error {
	if e == nil || e.UTR == "" || e.ReferenceID == "" || e.ToAccount == "" || e.FromAccount == "" {
		return ErrMissingTransferEvidence
	}
	if e.PaymentDate.IsZero() {
		return ErrMissingTransferEvidence
	}
	return nil
}

// ValidateEvidence checks the method-specific evidence payload. Cash needs
// nothing beyond the amount.
func ValidateEvidence(method PaymentMethod, cheque *ChequeEvidence, transfer *TransferEvidence) error {
	switch method {
	case MethodCash:
		return nil
	case MethodCheque:
		return cheque.Validate()
	case MethodAccountTransfer:
		return transfer.Validate()
	}
	return ErrInvalidPaymentMethod
}

// ClearedTransaction records how a payment was allocated against one
// outstanding ledger transaction. Provisional clearings are speculative
// pending verification and must be reversible.
type ClearedTransaction struct {
	TransactionID   string
	AmountCleared   decimal.Decimal
	RemainingAmount decimal.Decimal
	Provisional     bool
}

// AllocatePayment distributes a paid amount against outstanding ledger
// transactions oldest-first. The amount cleared against a transaction never
// exceeds that transaction's remaining balance; allocation stops once the
// paid amount is exhausted. The input slice must already be in chronological
// order; the entries' Remaining balances are reduced in place.
func AllocatePayment(amount decimal.Decimal, outstanding []*LedgerTransaction, provisional bool) ([]ClearedTransaction, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, decimal.Zero, ErrNonPositiveAmount
	}

	var cleared []ClearedTransaction
	left := amount
	for _, tx := range outstanding {
		if !left.IsPositive() {
			break
		}
		if !tx.Remaining.IsPositive() {
			continue
		}

		portion := left
		if portion.GreaterThan(tx.Remaining) {
			portion = tx.Remaining
		}
		tx.Remaining = tx.Remaining.Sub(portion)
		left = left.Sub(portion)

		cleared = append(cleared, ClearedTransaction{
			TransactionID:   tx.TransactionID,
			AmountCleared:   portion,
			RemainingAmount: tx.Remaining,
			Provisional:     provisional,
		})
	}

	return cleared, amount.Sub(left), nil
}
