package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fuelgenie-api/internal/adapters/persistence/models"
	"fuelgenie-api/internal/adapters/persistence/repositories"
	"fuelgenie-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Credit service errors
var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrCreditAccountNotFound = errors.New("credit account not found")
	ErrCreditAccountExists   = errors.New("customer already has a credit account")
)

// CreditService handles credit account business logic
type CreditService struct {
	db           *gorm.DB
	creditRepo   repositories.CreditRepository
	customerRepo repositories.CustomerRepository
	paymentRepo  repositories.PaymentRepository
}

// NewCreditService creates a new credit service
func NewCreditService(
	db *gorm.DB,
	creditRepo repositories.CreditRepository,
	customerRepo repositories.CustomerRepository,
	paymentRepo repositories.PaymentRepository,
) *CreditService {
	return &CreditService{
		db:           db,
		creditRepo:   creditRepo,
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
	}
}

// CreateAccountInput represents credit account creation input
type CreateAccountInput struct {
	CID          string          `json:"cid" validate:"required"`
	CreditAmount decimal.Decimal `json:"credit_amount" validate:"required"`
	CreditPeriod int             `json:"credit_period" validate:"required,min=1"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// RecordPurchaseInput represents a credit draw (fuel delivered on credit)
type RecordPurchaseInput struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description"`
}

// ReviseTermsInput represents an upgrade/downgrade of credit terms.
// Zero-valued fields keep the current term.
type ReviseTermsInput struct {
	CreditAmount decimal.Decimal `json:"credit_amount"`
	CreditPeriod int             `json:"credit_period"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// ExtraCreditInput represents a supplementary credit grant
type ExtraCreditInput struct {
	CreditAmount decimal.Decimal `json:"credit_amount" validate:"required"`
	CreditPeriod int             `json:"credit_period" validate:"required,min=1"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// CreditInfoOutput is the full account view served to the console
type CreditInfoOutput struct {
	Account           *models.CreditAccount         `json:"account"`
	AmountDue         decimal.Decimal               `json:"amount_due"`
	CanUpgrade        bool                          `json:"can_upgrade"`
	CanAddExtraCredit bool                          `json:"can_add_extra_credit"`
	Transactions      []*models.TransactionResponse `json:"transactions"`
	Settlements       []*models.Settlement          `json:"settlements"`
	PartialPayments   []*models.PartialPayment      `json:"partial_payments"`
	ExtraCredits      []*models.ExtraCredit         `json:"extra_credits"`
}

// CreateAccount opens a credit account for an onboarded customer
func (s *CreditService) CreateAccount(ctx context.Context, input *CreateAccountInput) (*models.CreditAccount, error) {
	// Customer must be onboarded first
	exists, err := s.customerRepo.Exists(ctx, input.CID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCustomerNotFound
	}

	// One account per customer
	if _, err := s.creditRepo.GetAccountByCID(ctx, input.CID); err == nil {
		return nil, ErrCreditAccountExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if !input.CreditAmount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}

	account := &models.CreditAccount{
		CreditID:            newCreditID(),
		CID:                 input.CID,
		CreditAmount:        input.CreditAmount,
		CurrentCreditAmount: decimal.Zero,
		CreditPeriod:        input.CreditPeriod,
		InterestRate:        input.InterestRate,
		Status:              string(domain.CreditStatusActive),
	}
	if err := s.creditRepo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	log.Printf("✅ Credit account created: %s (CID: %s)", account.CreditID, account.CID)
	return account, nil
}

// GetCreditInfo returns the account with its derived flags and ledger
func (s *CreditService) GetCreditInfo(ctx context.Context, cid string) (*CreditInfoOutput, error) {
	account, err := s.getAccount(ctx, cid)
	if err != nil {
		return nil, err
	}

	domainAccount := account.ToDomain()
	amountDue, err := domainAccount.AmountDue()
	if err != nil {
		return nil, err
	}

	txs, err := s.creditRepo.GetTransactions(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	responses := make([]*models.TransactionResponse, len(txs))
	for i, tx := range txs {
		responses[i] = tx.ToResponse()
	}

	extras, err := s.creditRepo.GetExtraCredits(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	settlements, err := s.paymentRepo.ListSettlements(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListPartialPayments(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &CreditInfoOutput{
		Account:           account,
		AmountDue:         amountDue,
		CanUpgrade:        domainAccount.CanUpgrade(),
		CanAddExtraCredit: domainAccount.CanAddExtraCredit(),
		Transactions:      responses,
		Settlements:       settlements,
		PartialPayments:   payments,
		ExtraCredits:      extras,
	}, nil
}

// RecordPurchase draws against the credit line: the outstanding balance
// grows and a ledger entry with the full amount still owed is appended
func (s *CreditService) RecordPurchase(ctx context.Context, cid string, input *RecordPurchaseInput) (*models.CreditTransaction, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}

	account, err := s.getAccount(ctx, cid)
	if err != nil {
		return nil, err
	}

	// Ceiling check: drawn amount may never exceed the approved limit
	newDrawn := account.CurrentCreditAmount.Add(input.Amount)
	if newDrawn.GreaterThan(account.CreditAmount) {
		return nil, domain.ErrPaymentExceedsDue
	}

	now := time.Now()
	entry := &models.CreditTransaction{
		TransactionID:   newTransactionID(),
		CreditAccountID: account.ID,
		Amount:          input.Amount,
		Remaining:       input.Amount,
		Date:            now,
		DueDate:         now.AddDate(0, 0, account.CreditPeriod),
		Description:     input.Description,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		account.CurrentCreditAmount = newDrawn
		return tx.Save(account).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Purchase recorded: %s for %s (CID: %s)", entry.TransactionID, input.Amount, cid)
	return entry, nil
}

// ReviseTerms upgrades or downgrades the credit terms. The account terms and
// the bookkeeping ledger entry are written in one transaction.
func (s *CreditService) ReviseTerms(ctx context.Context, cid string, input *ReviseTermsInput) (*models.CreditTransaction, error) {
	account, err := s.getAccount(ctx, cid)
	if err != nil {
		return nil, err
	}

	domainAccount := account.ToDomain()
	revision := domainAccount.ApplyRevision(domain.TermRevision{
		CreditAmount: input.CreditAmount,
		CreditPeriod: input.CreditPeriod,
		InterestRate: input.InterestRate,
	})

	now := time.Now()
	entry := &models.CreditTransaction{
		TransactionID:        newTransactionID(),
		CreditAccountID:      account.ID,
		Amount:               decimal.Zero,
		Remaining:            decimal.Zero,
		Date:                 now,
		DueDate:              now.AddDate(0, 0, domainAccount.CreditPeriod),
		Description:          "Credit terms revised",
		PreviousCreditAmount: revision.PreviousCreditAmount,
		UpgradedCreditAmount: revision.UpgradedCreditAmount,
		PreviousInterestRate: revision.PreviousInterestRate,
		UpgradedInterestRate: revision.UpgradedInterestRate,
		PreviousCreditPeriod: revision.PreviousCreditPeriod,
		UpgradedCreditPeriod: revision.UpgradedCreditPeriod,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account.CreditAmount = domainAccount.CreditAmount
		account.CreditPeriod = domainAccount.CreditPeriod
		account.InterestRate = domainAccount.InterestRate
		if err := tx.Save(account).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Credit terms revised for CID %s", cid)
	return entry, nil
}

// AddExtraCredit layers a supplementary grant on a non-active account
func (s *CreditService) AddExtraCredit(ctx context.Context, cid string, input *ExtraCreditInput) (*models.ExtraCredit, error) {
	if !input.CreditAmount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}

	account, err := s.getAccount(ctx, cid)
	if err != nil {
		return nil, err
	}

	if !account.ToDomain().CanAddExtraCredit() {
		return nil, domain.ErrCreditStillActive
	}

	extra := &models.ExtraCredit{
		CreditAccountID: account.ID,
		CreditAmount:    input.CreditAmount,
		CreditPeriod:    input.CreditPeriod,
		InterestRate:    input.InterestRate,
	}
	if err := s.creditRepo.CreateExtraCredit(ctx, extra); err != nil {
		return nil, err
	}

	log.Printf("✅ Extra credit %s granted to CID %s", input.CreditAmount, cid)
	return extra, nil
}

// getAccount fetches the account or maps gorm's not-found
func (s *CreditService) getAccount(ctx context.Context, cid string) (*models.CreditAccount, error) {
	account, err := s.creditRepo.GetAccountByCID(ctx, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreditAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// newCreditID generates a credit account identifier
func newCreditID() string {
	return fmt.Sprintf("CR-%s", uuid.New().String()[:8])
}

// newTransactionID generates a ledger transaction identifier
func newTransactionID() string {
	return fmt.Sprintf("TXN-%s", uuid.New().String()[:8])
}
