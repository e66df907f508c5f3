package services

import (
	"context"
	"errors"
	"log"

	"fuelgenie-api/internal/adapters/persistence/models"
	"fuelgenie-api/internal/adapters/persistence/repositories"
	"fuelgenie-api/internal/core/domain"

	"gorm.io/gorm"
)

// VerificationService resolves cheque and transfer payments. A decision is
// single-shot: once a record is SUCCESS or FAILED it can never be re-driven,
// and a FAILED decision carries a mandatory reason. Failing a provisional
// payment rolls its ledger clearings back.
type VerificationService struct {
	txRunner    repositories.TxRunner
	creditRepo  repositories.CreditRepository
	paymentRepo repositories.PaymentRepository
	guard       *InflightGuard
	notify      *NotificationService
}

// NewVerificationService creates a new verification service
func NewVerificationService(
	txRunner repositories.TxRunner,
	creditRepo repositories.CreditRepository,
	paymentRepo repositories.PaymentRepository,
	guard *InflightGuard,
	notify *NotificationService,
) *VerificationService {
	return &VerificationService{
		txRunner:    txRunner,
		creditRepo:  creditRepo,
		paymentRepo: paymentRepo,
		guard:       guard,
		notify:      notify,
	}
}

// VerifyInput represents an operator's verification decision
type VerifyInput struct {
	Decision string `json:"verification_status" validate:"required"`
	Reason   string `json:"reason"`
}

// PendingOutput lists records awaiting a verification decision
type PendingOutput struct {
	Payments    []*models.PartialPayment `json:"payments"`
	Settlements []*models.Settlement     `json:"settlements"`
}

// ListPending returns every payment and settlement still awaiting review
func (s *VerificationService) ListPending(ctx context.Context) (*PendingOutput, error) {
	payments, settlements, err := s.paymentRepo.ListPendingVerification(ctx)
	if err != nil {
		return nil, err
	}
	return &PendingOutput{Payments: payments, Settlements: settlements}, nil
}

// VerifyPayment resolves a pending-verification partial payment. SUCCESS
// finalizes the provisional clearings and reduces the drawn balance; FAILED
// restores every cleared transaction's remaining balance.
func (s *VerificationService) VerifyPayment(ctx context.Context, cid, paymentID string, input *VerifyInput) (*models.PartialPayment, error) {
	decision, err := domain.ParseDecision(input.Decision)
	if err != nil {
		return nil, err
	}

	if err := s.guard.acquire(cid); err != nil {
		return nil, err
	}
	defer s.guard.release(cid)

	payment, err := s.paymentRepo.GetPartialPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	account, err := s.accountByCID(ctx, cid)
	if err != nil {
		return nil, err
	}
	if payment.CreditAccountID != account.ID {
		return nil, domain.ErrPaymentNotFound
	}

	current := domain.VerificationStatus(payment.VerificationStatus)
	if err := domain.CheckVerification(current, decision, input.Reason); err != nil {
		return nil, err
	}

	err = s.txRunner.InTx(ctx, func(store repositories.LedgerStore) error {
		payment.VerificationStatus = string(decision)

		if decision == domain.VerificationSuccess {
			payment.Status = string(domain.PaymentStatusVerified)

			// Provisional clearings become final
			for i := range payment.ClearedTransactions {
				payment.ClearedTransactions[i].Provisional = false
				if err := store.SaveClearing(&payment.ClearedTransactions[i]); err != nil {
					return err
				}
			}

			if err := reduceDrawn(store, account, payment.AmountPaid, payment.IsPayTotal); err != nil {
				return err
			}
		} else {
			payment.Status = string(domain.PaymentStatusFailedVerification)
			payment.VerificationFailureReason = input.Reason

			// Roll the speculative ledger mutation back
			if err := s.restoreClearings(store, payment.ClearedTransactions); err != nil {
				return err
			}
		}

		return store.SavePayment(payment)
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.NotifyVerification(payment.PaymentID, string(decision), input.Reason, cid)
	}

	log.Printf("✅ Payment %s verified as %s (CID: %s)", payment.PaymentID, decision, cid)
	return payment, nil
}

// VerifySettlement resolves a pending cheque/transfer settlement. SUCCESS
// allocates the settled amount and marks the settlement PAID; FAILED marks
// it FAILED with the mandatory reason. The settlement never touched the
// ledger before this point, so failure needs no rollback.
func (s *VerificationService) VerifySettlement(ctx context.Context, cid, settlementID string, input *VerifyInput) (*models.Settlement, error) {
	decision, err := domain.ParseDecision(input.Decision)
	if err != nil {
		return nil, err
	}

	if err := s.guard.acquire(cid); err != nil {
		return nil, err
	}
	defer s.guard.release(cid)

	settlement, err := s.paymentRepo.GetSettlementByID(ctx, settlementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}

	account, err := s.accountByCID(ctx, cid)
	if err != nil {
		return nil, err
	}
	if settlement.CreditAccountID != account.ID {
		return nil, domain.ErrSettlementNotFound
	}

	current := domain.VerificationStatus(settlement.VerificationStatus)
	if err := domain.CheckVerification(current, decision, input.Reason); err != nil {
		return nil, err
	}

	err = s.txRunner.InTx(ctx, func(store repositories.LedgerStore) error {
		settlement.VerificationStatus = string(decision)

		if decision == domain.VerificationSuccess {
			return s.settleLedger(store, account, settlement)
		}

		settlement.Status = domain.SettlementStatusFailed
		settlement.VerificationFailureReason = input.Reason
		return store.SaveSettlement(settlement)
	})
	if err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.NotifyVerification(settlement.SettlementID, string(decision), input.Reason, cid)
	}

	log.Printf("✅ Settlement %s verified as %s (CID: %s)", settlement.SettlementID, decision, cid)
	return settlement, nil
}

// restoreClearings adds each provisionally cleared amount back onto its
// ledger transaction
func (s *VerificationService) restoreClearings(store repositories.LedgerStore, clearings []models.ClearedTransaction) error {
	for i := range clearings {
		row, err := store.TransactionByID(clearings[i].TransactionID)
		if err != nil {
			return err
		}
		row.Remaining = row.Remaining.Add(clearings[i].AmountCleared)
		if err := store.SaveTransaction(row); err != nil {
			return err
		}
	}
	return nil
}

// settleLedger applies a verified settlement: allocate oldest-first, mark
// PAID, reduce the drawn balance
func (s *VerificationService) settleLedger(store repositories.LedgerStore, account *models.CreditAccount, settlement *models.Settlement) error {
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

// accountByCID fetches the account or maps gorm's not-found
func (s *VerificationService) accountByCID(ctx context.Context, cid string) (*models.CreditAccount, error) {
	account, err := s.creditRepo.GetAccountByCID(ctx, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreditAccountNotFound
		}
		return nil, err
	}
	return account, nil
}
