package models

import (
	"strconv"
	"time"

	"fuelgenie-api/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Credit Account Tables
// ============================================================

// CreditAccount represents credit_accounts table
type CreditAccount struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	CreditID            string          `gorm:"uniqueIndex;size:40;not null" json:"credit_id"`
	CID                 string          `gorm:"index;size:30;not null" json:"cid"`
	CreditAmount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"credit_amount"`
	CurrentCreditAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"current_credit_amount"`
	CreditPeriod        int             `gorm:"not null" json:"credit_period"`
	InterestRate        decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	Status              string          `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	Customer        *Customer           `gorm:"foreignKey:CID;references:CID" json:"customer,omitempty"`
	Transactions    []CreditTransaction `gorm:"foreignKey:CreditAccountID" json:"transactions,omitempty"`
	Settlements     []Settlement        `gorm:"foreignKey:CreditAccountID" json:"settlements,omitempty"`
	PartialPayments []PartialPayment    `gorm:"foreignKey:CreditAccountID" json:"partial_payments,omitempty"`
	ExtraCredits    []ExtraCredit       `gorm:"foreignKey:CreditAccountID" json:"extra_credits,omitempty"`
}

func (CreditAccount) TableName() string {
	return "credit_accounts"
}

// ToDomain converts the row into the pure credit account model
func (a *CreditAccount) ToDomain() *domain.CreditAccount {
	return &domain.CreditAccount{
		CID:                 a.CID,
		CreditID:            a.CreditID,
		CreditAmount:        a.CreditAmount,
		CurrentCreditAmount: a.CurrentCreditAmount,
		CreditPeriod:        a.CreditPeriod,
		InterestRate:        a.InterestRate,
		Status:              domain.CreditStatus(a.Status),
	}
}

// CreditTransaction represents one append-only ledger entry
type CreditTransaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	TransactionID   string          `gorm:"uniqueIndex;size:40;not null" json:"transaction_id"`
	CreditAccountID uint            `gorm:"index;not null" json:"credit_account_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Remaining       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"remaining"`
	Date            time.Time       `gorm:"not null" json:"date"`
	DueDate         time.Time       `json:"due_date"`
	Description     string          `gorm:"type:text" json:"description"`
	IsOverdue       bool            `gorm:"default:false" json:"is_overdue"`

	// Populated only on credit-term revisions; nil reports as "Initial"
	PreviousCreditAmount *decimal.Decimal `gorm:"type:decimal(15,2)" json:"previous_credit_amount"`
	UpgradedCreditAmount *decimal.Decimal `gorm:"type:decimal(15,2)" json:"upgraded_credit_amount"`
	PreviousInterestRate *decimal.Decimal `gorm:"type:decimal(5,2)" json:"previous_interest_rate"`
	UpgradedInterestRate *decimal.Decimal `gorm:"type:decimal(5,2)" json:"upgraded_interest_rate"`
	PreviousCreditPeriod *int             `json:"previous_credit_period"`
	UpgradedCreditPeriod *int             `json:"upgraded_credit_period"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

// ToDomain converts the row into the pure ledger entry
func (t *CreditTransaction) ToDomain() *domain.LedgerTransaction {
	return &domain.LedgerTransaction{
		TransactionID:        t.TransactionID,
		Amount:               t.Amount,
		Remaining:            t.Remaining,
		Date:                 t.Date,
		DueDate:              t.DueDate,
		Description:          t.Description,
		PreviousCreditAmount: t.PreviousCreditAmount,
		UpgradedCreditAmount: t.UpgradedCreditAmount,
		PreviousInterestRate: t.PreviousInterestRate,
		UpgradedInterestRate: t.UpgradedInterestRate,
		PreviousCreditPeriod: t.PreviousCreditPeriod,
		UpgradedCreditPeriod: t.UpgradedCreditPeriod,
	}
}

// TransactionResponse DTO. Revision fields report "Initial" when the entry is
// not a term revision.
type TransactionResponse struct {
	TransactionID        string          `json:"transaction_id"`
	Amount               decimal.Decimal `json:"amount"`
	Remaining            decimal.Decimal `json:"remaining"`
	Date                 time.Time       `json:"date"`
	DueDate              time.Time       `json:"due_date"`
	Description          string          `json:"description"`
	IsOverdue            bool            `json:"is_overdue"`
	PreviousCreditAmount string          `json:"previous_credit_amount"`
	UpgradedCreditAmount string          `json:"upgraded_credit_amount"`
	PreviousInterestRate string          `json:"previous_interest_rate"`
	UpgradedInterestRate string          `json:"upgraded_interest_rate"`
	PreviousCreditPeriod string          `json:"previous_credit_period"`
	UpgradedCreditPeriod string          `json:"upgraded_credit_period"`
}

const initialTerm = "Initial"

func decimalOrInitial(d *decimal.Decimal) string {
	if d == nil {
		return initialTerm
	}
	return d.String()
}

func periodOrInitial(p *int) string {
	if p == nil {
		return initialTerm
	}
	return strconv.Itoa(*p)
}

func (t *CreditTransaction) ToResponse() *TransactionResponse {
	return &TransactionResponse{
		TransactionID:        t.TransactionID,
		Amount:               t.Amount,
		Remaining:            t.Remaining,
		Date:                 t.Date,
		DueDate:              t.DueDate,
		Description:          t.Description,
		IsOverdue:            t.IsOverdue,
		PreviousCreditAmount: decimalOrInitial(t.PreviousCreditAmount),
		UpgradedCreditAmount: decimalOrInitial(t.UpgradedCreditAmount),
		PreviousInterestRate: decimalOrInitial(t.PreviousInterestRate),
		UpgradedInterestRate: decimalOrInitial(t.UpgradedInterestRate),
		PreviousCreditPeriod: periodOrInitial(t.PreviousCreditPeriod),
		UpgradedCreditPeriod: periodOrInitial(t.UpgradedCreditPeriod),
	}
}

// ============================================================
// Payment Tables
// ============================================================

// Settlement represents settlements table: a lump-sum resolution of an
// outstanding balance, possibly bundled with a re-term.
type Settlement struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	SettlementID      string          `gorm:"uniqueIndex;size:40;not null" json:"settlement_id"`
	CreditAccountID   uint            `gorm:"index;not null" json:"credit_account_id"`
	SettledAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"settled_amount"`
	OutstandingAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"outstanding_amount"`
	Status            string          `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	SettlementDate    time.Time       `gorm:"not null" json:"settlement_date"`
	PaymentMethod     string          `gorm:"size:20;not null" json:"payment_method"`

	// Verification state; empty string means not yet reviewed
	VerificationStatus        string `gorm:"size:10" json:"cheque_verification_status,omitempty"`
	VerificationFailureReason string `gorm:"type:text" json:"cheque_verification_failure_reason,omitempty"`

	ChequeNumber       string     `gorm:"size:30" json:"cheque_number,omitempty"`
	ChequeBankName     string     `gorm:"size:100" json:"bank_name,omitempty"`
	ChequeIssuedDate   *time.Time `json:"cheque_issued_date,omitempty"`
	ChequeReceivedDate *time.Time `json:"cheque_received_date,omitempty"`
	ChequeImagePath    string     `gorm:"size:255" json:"cheque_image,omitempty"`

	TransferUTR           string     `gorm:"size:40" json:"utr,omitempty"`
	TransferReferenceID   string     `gorm:"size:40" json:"reference_id,omitempty"`
	TransferToAccount     string     `gorm:"size:40" json:"to_account,omitempty"`
	TransferFromAccount   string     `gorm:"size:40" json:"from_account,omitempty"`
	TransferPaymentDate   *time.Time `json:"payment_date,omitempty"`
	TransferRemarks       string     `gorm:"type:text" json:"remarks,omitempty"`
	TransferNetwork       string     `gorm:"size:20" json:"network,omitempty"`
	ManualReleaseRequired bool       `gorm:"default:false" json:"manual_release_required"`
	TransferTxStatus      string     `gorm:"size:20" json:"transaction_status,omitempty"`
	TransferReceiptPath   string     `gorm:"size:255" json:"transfer_receipt,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Settlement) TableName() string {
	return "settlements"
}

// PartialPayment represents partial_payments table
type PartialPayment struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	PaymentID       string          `gorm:"uniqueIndex;size:40;not null" json:"payment_id"`
	CreditAccountID uint            `gorm:"index;not null" json:"credit_account_id"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount_paid"`
	Timestamp       time.Time       `gorm:"not null" json:"timestamp"`
	PaymentMethod   string          `gorm:"size:20;not null" json:"payment_method"`
	Status          string          `gorm:"size:25;not null;default:'PENDING'" json:"status"`
	IsPayTotal      bool            `gorm:"default:false" json:"is_pay_total"`

	// Verification state; empty string means not yet reviewed
	VerificationStatus        string `gorm:"size:10" json:"verification_status,omitempty"`
	VerificationFailureReason string `gorm:"type:text" json:"cheque_verification_failure_reason,omitempty"`

	ChequeNumber       string     `gorm:"size:30" json:"cheque_number,omitempty"`
	ChequeBankName     string     `gorm:"size:100" json:"bank_name,omitempty"`
	ChequeIssuedDate   *time.Time `json:"cheque_issued_date,omitempty"`
	ChequeReceivedDate *time.Time `json:"cheque_received_date,omitempty"`
	ChequeImagePath    string     `gorm:"size:255" json:"cheque_image,omitempty"`

	TransferUTR           string     `gorm:"size:40" json:"utr,omitempty"`
	TransferReferenceID   string     `gorm:"size:40" json:"reference_id,omitempty"`
	TransferToAccount     string     `gorm:"size:40" json:"to_account,omitempty"`
	TransferFromAccount   string     `gorm:"size:40" json:"from_account,omitempty"`
	TransferPaymentDate   *time.Time `json:"payment_date,omitempty"`
	TransferRemarks       string     `gorm:"type:text" json:"remarks,omitempty"`
	TransferNetwork       string     `gorm:"size:20" json:"network,omitempty"`
	ManualReleaseRequired bool       `gorm:"default:false" json:"manual_release_required"`
	TransferTxStatus      string     `gorm:"size:20" json:"transaction_status,omitempty"`
	TransferReceiptPath   string     `gorm:"size:255" json:"transfer_receipt,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	ClearedTransactions []ClearedTransaction `gorm:"foreignKey:PartialPaymentID" json:"cleared_transactions,omitempty"`
}

func (PartialPayment) TableName() string {
	return "partial_payments"
}

// ClearedTransaction records how a payment was allocated against one
// outstanding ledger transaction
type ClearedTransaction struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	PartialPaymentID uint            `gorm:"index;not null" json:"partial_payment_id"`
	TransactionID    string          `gorm:"size:40;not null;index" json:"transaction_id"`
	AmountCleared    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount_cleared"`
	RemainingAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"remaining_amount"`
	Provisional      bool            `gorm:"default:false" json:"provisional"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (ClearedTransaction) TableName() string {
	return "cleared_transactions"
}

// ExtraCredit represents extra_credits table: a supplementary, time-boxed
// grant layered on a non-active base account
type ExtraCredit struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CreditAccountID uint            `gorm:"index;not null" json:"credit_account_id"`
	CreditAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"credit_amount"`
	CreditPeriod    int             `gorm:"not null" json:"credit_period"`
	InterestRate    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (ExtraCredit) TableName() string {
	return "extra_credits"
}
