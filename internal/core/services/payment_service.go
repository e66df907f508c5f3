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

// PaymentService handles settlements, partial payments and pay-total
// operations against a credit account. Every mutating operation is guarded
// by a per-account in-flight lock and applied atomically: a failed write
// leaves the ledger untouched.
type PaymentService struct {
	txRunner    repositories.TxRunner
	creditRepo  repositories.CreditRepository
	paymentRepo repositories.PaymentRepository
	guard       *InflightGuard
	notify      *NotificationService
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	txRunner repositories.TxRunner,
	creditRepo repositories.CreditRepository,
	paymentRepo repositories.PaymentRepository,
	guard *InflightGuard,
	notify *NotificationService,
) *PaymentService {
	return &PaymentService{
		txRunner:    txRunner,
		creditRepo:  creditRepo,
		paymentRepo: paymentRepo,
		guard:       guard,
		notify:      notify,
	}
}

// EvidenceInput carries the method-specific payment evidence. Exactly one of
// Cheque/Transfer must be set when the method requires verification.
type EvidenceInput struct {
	Cheque   *domain.ChequeEvidence
	Transfer *domain.TransferEvidence
}

// SettleCreditInput represents a lump-sum settlement, optionally bundled
// with a credit-term revision
type SettleCreditInput struct {
	SettledAmount decimal.Decimal `json:"settled_amount" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	Evidence      EvidenceInput   `json:"-"`

	// Optional re-term; zero-valued fields keep the current terms
	CreditAmount decimal.Decimal `json:"credit_amount"`
	CreditPeriod int             `json:"credit_period"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// PartialPaymentInput represents an incremental repayment
type PartialPaymentInput struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	Evidence      EvidenceInput   `json:"-"`
}

// PayTotalInput represents paying off the full amount due
type PayTotalInput struct {
	PaymentMethod string        `json:"payment_method" validate:"required"`
	Evidence      EvidenceInput `json:"-"`
}

// SettleCredit records a settlement against the account. Cash settles
// synchronously; cheque and transfer stay PENDING until verified. A bundled
// term revision is applied immediately as part of the same transaction.
func (s *PaymentService) SettleCredit(ctx context.Context, cid string, input *SettleCreditInput) (*models.Settlement, error) {
	method, err := domain.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateEvidence(method, input.Evidence.Cheque, input.Evidence.Transfer); err != nil {
		return nil, err
	}
	if !input.SettledAmount.IsPositive() {
		return nil, domain.ErrNonPositiveAmount
	}

	if err := s.guard.acquire(cid); err != nil {
		return nil, err
	}
	defer s.guard.release(cid)

	account, err := s.getAccount(ctx, cid)
	if err != nil {
		return nil, err
	}
	amountDue, err := account.ToDomain().AmountDue()
	if err != nil {
		return nil, err
	}

	settlement := &models.Settlement{
		SettlementID:      newSettlementID(),
		CreditAccountID:   account.ID,
		SettledAmount:     input.SettledAmount,
		OutstandingAmount: amountDue,
		Status:            domain.SettlementStatusPending,
		SettlementDate:    time.Now(),
		PaymentMethod:     string(method),
	}
	applyEvidence(settlement, nil, input.Evidence)

	err = s.txRunner.InTx(ctx, func(store repositories.LedgerStore) error {
		// Bundled re-term is part of the settle operation regardless of
		// how the money itself resolves
		if !input.CreditAmount.IsZero() || input.CreditPeriod > 0 || !input.InterestRate.IsZero() {
			domainAccount := account.ToDomain()
			revision := domainAccount.ApplyRevision(domain.TermRevision{
				CreditAmount: input.CreditAmount,
				CreditPeriod: input.CreditPeriod,
				InterestRate: input.InterestRate,
			})
			account.CreditAmount = domainAccount.CreditAmount
			account.CreditPeriod = domainAccount.CreditPeriod
			account.InterestRate = domainAccount.InterestRate

			now := time.Now()
			entry := &models.CreditTransaction{
				TransactionID:        newTransactionID(),
				CreditAccountID:      account.ID,
				Amount:               decimal.Zero,
				Remaining:            decimal.Zero,
				Date:                 now,
				DueDate:              now.AddDate(0, 0, domainAccount.CreditPeriod),
				Description:          "Terms revised on settlement",
				PreviousCreditAmount: revision.PreviousCreditAmount,
				UpgradedCreditAmount: revision.UpgradedCreditAmount,
				PreviousInterestRate: revision.PreviousInterestRate,
				UpgradedInterestRate: revision.UpgradedInterestRate,
				PreviousCreditPeriod: revision.PreviousCreditPeriod,
				UpgradedCreditPeriod: revision.UpgradedCreditPeriod,
			}
			if err := store.CreateTransaction(entry); err != nil {
				return err
			}
			if err := store.SaveAccount(account); err != nil {
				return err
			}
		}

		if err := store.CreateSettlement(settlement); err != nil {
			return err
		}

		// Cash money is in hand: resolve synchronously
		if !method.RequiresVerification() {
			return s.finalizeSettlement(store, account, settlement)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.NotifySettlement(settlement, cid)
	}

	log.Printf("✅ Settlement %s recorded for CID %s [%s]", settlement.SettlementID, cid, settlement.Status)
	return settlement, nil
}

// PartialPayment allocates a paid amount against outstanding transactions
// oldest-first. Cheque/transfer allocations are provisional: the ledger
// remaining balances drop immediately but the drawn amount is only reduced
// once verification succeeds.
func (s *PaymentService) PartialPayment(ctx context.Context, cid string, input *PartialPaymentInput) (*models.PartialPayment, error) {
	method, err := domain.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateEvidence(method, input.Evidence.Cheque, input.Evidence.Transfer); err != nil {
		return nil, err
	}

	if err := s.guard.acquire(cid); err != nil {
		return nil, err
	}
	defer s.guard.release(cid)

	account, err := s.getAccount(ctx, cid)
	if err != nil {
		return nil, err
	}
	if !account.CurrentCreditAmount.IsPositive() {
		return nil, domain.ErrNothingOutstanding
	}
	if input.Amount.GreaterThan(account.CurrentCreditAmount) {
		return nil, domain.ErrPaymentExceedsDue
	}

	return s.recordPayment(ctx, account, input.Amount, method, input.Evidence, false)
}

// PayTotal pays exactly the amount due and zeroes the drawn balance. Like
// any other payment it is provisional when paid by cheque or transfer.
func (s *PaymentService) PayTotal(ctx context.Context, cid string, input *PayTotalInput) (*models.PartialPayment, error) {
	method, err := domain.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateEvidence(method, input.Evidence.Cheque, input.Evidence.Transfer); err != nil {
		return nil, err
	}

	if err := s.guard.acquire(cid); err != nil {
		return nil, err
	}
	defer s.guard.release(cid)

	account, err := s.getAccount(ctx, cid)
	if err != nil {
		return nil, err
	}
	amountDue, err := account.ToDomain().AmountDue()
	if err != nil {
		return nil, err
	}
	if !amountDue.IsPositive() {
		return nil, domain.ErrNothingOutstanding
	}

	return s.recordPayment(ctx, account, amountDue, method, input.Evidence, true)
}

// ListPayments returns the payment history of an account
func (s *PaymentService) ListPayments(ctx context.Context, cid string) ([]*models.PartialPayment, []*models.Settlement, error) {
	account, err := s.getAccount(ctx, cid)
	if err != nil {
		return nil, nil, err
	}

	payments, err := s.paymentRepo.ListPartialPayments(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}
	settlements, err := s.paymentRepo.ListSettlements(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}
	return payments, settlements, nil
}

// recordPayment runs the shared payment path: allocate, persist payment and
// allocations, and either finalize (cash) or leave pending verification
func (s *PaymentService) recordPayment(
	ctx context.Context,
	account *models.CreditAccount,
	amount decimal.Decimal,
	method domain.PaymentMethod,
	evidence EvidenceInput,
	payTotal bool,
) (*models.PartialPayment, error) {
	outstandingRows, err := s.creditRepo.GetOutstandingTransactions(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	// Allocate oldest-first against the pure ledger view
	ledger := make([]*domain.LedgerTransaction, len(outstandingRows))
	for i, row := range outstandingRows {
		ledger[i] = row.ToDomain()
	}
	provisional := method.RequiresVerification()
	cleared, clearedTotal, err := domain.AllocatePayment(amount, ledger, provisional)
	if err != nil {
		return nil, err
	}

	payment := &models.PartialPayment{
		PaymentID:       newPaymentID(),
		CreditAccountID: account.ID,
		AmountPaid:      amount,
		Timestamp:       time.Now(),
		PaymentMethod:   string(method),
		IsPayTotal:      payTotal,
	}
	if provisional {
		payment.Status = string(domain.PaymentStatusPendingVerification)
	} else {
		payment.Status = string(domain.PaymentStatusSuccess)
	}
	applyEvidence(nil, payment, evidence)

	for _, c := range cleared {
		payment.ClearedTransactions = append(payment.ClearedTransactions, models.ClearedTransaction{
			TransactionID:   c.TransactionID,
			AmountCleared:   c.AmountCleared,
			RemainingAmount: c.RemainingAmount,
			Provisional:     c.Provisional,
		})
	}

	err = s.txRunner.InTx(ctx, func(store repositories.LedgerStore) error {
		if err := store.CreatePayment(payment); err != nil {
			return err
		}

		// Ledger remaining balances drop now in both cases; a failed
		// verification restores them later
		for i, row := range outstandingRows {
			row.Remaining = ledger[i].Remaining
			if err := store.SaveTransaction(row); err != nil {
				return err
			}
		}

		// The drawn amount only moves on finality
		if !provisional {
			return reduceDrawn(store, account, amount, payTotal)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.NotifyPayment(payment, account.CID)
	}

	log.Printf("✅ Payment %s of %s recorded for CID %s [%s] cleared=%s",
		payment.PaymentID, amount, account.CID, payment.Status, clearedTotal)
	return payment, nil
}

// finalizeSettlement resolves a settlement to PAID: the settled amount is
// allocated oldest-first and the drawn balance reduced. Runs inside the
// caller's transaction.
func (s *PaymentService) finalizeSettlement(store repositories.LedgerStore, account *models.CreditAccount, settlement *models.Settlement) error {
	outstandingRows, err := store.OutstandingTransactions(account.ID)
	if err != nil {
		return err
	}

	ledger := make([]*domain.LedgerTransaction, len(outstandingRows))
	for i, row := range outstandingRows {
		ledger[i] = row.ToDomain()
	}
	if _, _, err := domain.AllocatePayment(settlement.SettledAmount, ledger, false); err != nil {
		return err
	}
	for i, row := range outstandingRows {
		row.Remaining = ledger[i].Remaining
		if err := store.SaveTransaction(row); err != nil {
			return err
		}
	}

	settlement.Status = domain.SettlementStatusPaid
	if err := store.SaveSettlement(settlement); err != nil {
		return err
	}

	return reduceDrawn(store, account, settlement.SettledAmount, false)
}

// reduceDrawn lowers the account's drawn amount on payment finality.
// Pay-total zeroes the balance outright; anything else subtracts the paid
// amount, capped at the drawn balance.
func reduceDrawn(store repositories.LedgerStore, account *models.CreditAccount, amount decimal.Decimal, payTotal bool) error {
	if payTotal {
		account.CurrentCreditAmount = decimal.Zero
	} else {
		reduced := account.CurrentCreditAmount.Sub(amount)
		if reduced.IsNegative() {
			reduced = decimal.Zero
		}
		account.CurrentCreditAmount = reduced
	}
	if account.CurrentCreditAmount.IsZero() {
		account.Status = string(domain.CreditStatusSettled)
	}
	return store.SaveAccount(account)
}

// getAccount fetches the account or maps gorm's not-found
func (s *PaymentService) getAccount(ctx context.Context, cid string) (*models.CreditAccount, error) {
	account, err := s.creditRepo.GetAccountByCID(ctx, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreditAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// applyEvidence copies the method-specific evidence onto whichever record is
// being written
func applyEvidence(settlement *models.Settlement, payment *models.PartialPayment, evidence EvidenceInput) {
	if cheque := evidence.Cheque; cheque != nil {
		issued := cheque.ChequeIssuedDate
		received := cheque.ChequeReceivedDate
		if settlement != nil {
			settlement.ChequeNumber = cheque.ChequeNumber
			settlement.ChequeBankName = cheque.BankName
			settlement.ChequeIssuedDate = &issued
			settlement.ChequeReceivedDate = &received
			settlement.ChequeImagePath = cheque.ChequeImagePath
		}
		if payment != nil {
			payment.ChequeNumber = cheque.ChequeNumber
			payment.ChequeBankName = cheque.BankName
			payment.ChequeIssuedDate = &issued
			payment.ChequeReceivedDate = &received
			payment.ChequeImagePath = cheque.ChequeImagePath
		}
	}
	if transfer := evidence.Transfer; transfer != nil {
		paymentDate := transfer.PaymentDate
		if settlement != nil {
			settlement.TransferUTR = transfer.UTR
			settlement.TransferReferenceID = transfer.ReferenceID
			settlement.TransferToAccount = transfer.ToAccount
			settlement.TransferFromAccount = transfer.FromAccount
			settlement.TransferPaymentDate = &paymentDate
			settlement.TransferRemarks = transfer.Remarks
			settlement.TransferNetwork = transfer.Network
			settlement.ManualReleaseRequired = transfer.ManualReleaseRequired
			settlement.TransferTxStatus = transfer.TransactionStatus
			settlement.TransferReceiptPath = transfer.ReceiptPath
		}
		if payment != nil {
			payment.TransferUTR = transfer.UTR
			payment.TransferReferenceID = transfer.ReferenceID
			payment.TransferToAccount = transfer.ToAccount
			payment.TransferFromAccount = transfer.FromAccount
			payment.TransferPaymentDate = &paymentDate
			payment.TransferRemarks = transfer.Remarks
			payment.TransferNetwork = transfer.Network
			payment.ManualReleaseRequired = transfer.ManualReleaseRequired
			payment.TransferTxStatus = transfer.TransactionStatus
			payment.TransferReceiptPath = transfer.ReceiptPath
		}
	}
}

// newSettlementID generates a settlement identifier
func newSettlementID() string {
	return fmt.Sprintf("STL-%s", uuid.New().String()[:8])
}

// newPaymentID generates a payment identifier
func newPaymentID() string {
	return fmt.Sprintf("PAY-%s", uuid.New().String()[:8])
}
