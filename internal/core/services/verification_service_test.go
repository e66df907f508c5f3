package services

import (
	"context"
	"testing"

	"fuelgenie-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChequePaymentPendingUntilVerified(t *testing.T) {
	paymentSvc, verificationSvc, ledger := newPaymentFixture()
	account := seedLedgerAccount(ledger, "CID-3001", "60000", "40000", "10000", "20000")

	payment, err := paymentSvc.PartialPayment(context.Background(), "CID-3001", &PartialPaymentInput{
		Amount:        dec("15000"),
		PaymentMethod: "CHEQUE",
		Evidence:      chequeEvidence(),
	})
	require.NoError(t, err)

	// The ledger remaining balances drop speculatively, the drawn amount
	// does not move until the cheque clears
	assert.Equal(t, string(domain.PaymentStatusPendingVerification), payment.Status)
	assert.True(t, ledger.transactions[0].Remaining.IsZero())
	assert.True(t, ledger.transactions[1].Remaining.Equal(dec("15000")))
	assert.True(t, account.CurrentCreditAmount.Equal(dec("40000")))
	for _, clearing := range payment.ClearedTransactions {
		assert.True(t, clearing.Provisional)
	}

	verified, err := verificationSvc.VerifyPayment(context.Background(), "CID-3001", payment.PaymentID, &VerifyInput{
		Decision: "SUCCESS",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentStatusVerified), verified.Status)
	assert.Equal(t, "SUCCESS", verified.VerificationStatus)
	assert.True(t, account.CurrentCreditAmount.Equal(dec("25000")))
	for _, clearing := range verified.ClearedTransactions {
		assert.False(t, clearing.Provisional)
	}
}

func TestFailedVerificationRestoresLedger(t *testing.T) {
	paymentSvc, verificationSvc, ledger := newPaymentFixture()
	account := seedLedgerAccount(ledger, "CID-3002", "60000", "40000", "10000", "20000")

	payment, err := paymentSvc.PartialPayment(context.Background(), "CID-3002", &PartialPaymentInput{
		Amount:        dec("15000"),
		PaymentMethod: "CHEQUE",
		Evidence:      chequeEvidence(),
	})
	require.NoError(t, err)

	failed, err := verificationSvc.VerifyPayment(context.Background(), "CID-3002", payment.PaymentID, &VerifyInput{
		Decision: "FAILED",
		Reason:   "cheque bounced",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentStatusFailedVerification), failed.Status)
	assert.Equal(t, "cheque bounced", failed.VerificationFailureReason)

	// Every provisionally cleared amount is back on its transaction and the
	// drawn amount never moved
	assert.True(t, ledger.transactions[0].Remaining.Equal(dec("10000")))
	assert.True(t, ledger.transactions[1].Remaining.Equal(dec("20000")))
	assert.True(t, account.CurrentCreditAmount.Equal(dec("40000")))
}

func TestVerificationRequiresReasonOnFailure(t *testing.T) {
	paymentSvc, verificationSvc, ledger := newPaymentFixture()
	seedLedgerAccount(ledger, "CID-3003", "60000", "40000", "40000")

	payment, err := paymentSvc.PartialPayment(context.Background(), "CID-3003", &PartialPaymentInput{
		Amount:        dec("5000"),
		PaymentMethod: "CHEQUE",
		Evidence:      chequeEvidence(),
	})
	require.NoError(t, err)

	_, err = verificationSvc.VerifyPayment(context.Background(), "CID-3003", payment.PaymentID, &VerifyInput{
		Decision: "FAILED",
	})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)
}

func TestVerificationIsSingleShot(t *testing.T) {
	paymentSvc, verificationSvc, ledger := newPaymentFixture()
	seedLedgerAccount(ledger, "CID-3004", "60000", "40000", "40000")

	payment, err := paymentSvc.PartialPayment(context.Background(), "CID-3004", &PartialPaymentInput{
		Amount:        dec("5000"),
		PaymentMethod: "CHEQUE",
		Evidence:      chequeEvidence(),
	})
	require.NoError(t, err)

	_, err = verificationSvc.VerifyPayment(context.Background(), "CID-3004", payment.PaymentID, &VerifyInput{
		Decision: "SUCCESS",
	})
	require.NoError(t, err)

	// A terminal record can never be re-driven, not even to the same state
	_, err = verificationSvc.VerifyPayment(context.Background(), "CID-3004", payment.PaymentID, &VerifyInput{
		Decision: "SUCCESS",
	})
	assert.ErrorIs(t, err, domain.ErrVerificationConflict)

	_, err = verificationSvc.VerifyPayment(context.Background(), "CID-3004", payment.PaymentID, &VerifyInput{
		Decision: "FAILED",
		Reason:   "second thoughts",
	})
	assert.ErrorIs(t, err, domain.ErrVerificationConflict)
}

func TestVerifySettlementSuccessSettlesLedger(t *testing.T) {
	paymentSvc, verificationSvc, ledger := newPaymentFixture()
	account := seedLedgerAccount(ledger, "CID-3005", "50000", "15000", "10000", "5000")

	settlement, err := paymentSvc.SettleCredit(context.Background(), "CID-3005", &SettleCreditInput{
		SettledAmount: dec("15000"),
		PaymentMethod: "CHEQUE",
		Evidence:      chequeEvidence(),
	})
	require.NoError(t, err)
	require.Equal(t, domain.SettlementStatusPending, settlement.Status)

	verified, err := verificationSvc.VerifySettlement(context.Background(), "CID-3005", settlement.SettlementID, &VerifyInput{
		Decision: "SUCCESS",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SettlementStatusPaid, verified.Status)
	for _, row := range ledger.transactions {
		assert.True(t, row.Remaining.IsZero())
	}
	assert.True(t, account.CurrentCreditAmount.IsZero())
	assert.Equal(t, string(domain.CreditStatusSettled), account.Status)
}

func TestVerifySettlementFailureLeavesLedgerAlone(t *testing.T) {
	paymentSvc, verificationSvc, ledger := newPaymentFixture()
	account := seedLedgerAccount(ledger, "CID-3006", "50000", "15000", "10000", "5000")

	settlement, err := paymentSvc.SettleCredit(context.Background(), "CID-3006", &SettleCreditInput{
		SettledAmount: dec("15000"),
		PaymentMethod: "CHEQUE",
		Evidence:      chequeEvidence(),
	})
	require.NoError(t, err)

	failed, err := verificationSvc.VerifySettlement(context.Background(), "CID-3006", settlement.SettlementID, &VerifyInput{
		Decision: "FAILED",
		Reason:   "signature mismatch",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SettlementStatusFailed, failed.Status)
	assert.Equal(t, "signature mismatch", failed.VerificationFailureReason)

	// The settlement never touched the ledger before verification
	assert.True(t, ledger.transactions[0].Remaining.Equal(dec("10000")))
	assert.True(t, ledger.transactions[1].Remaining.Equal(dec("5000")))
	assert.True(t, account.CurrentCreditAmount.Equal(dec("15000")))
}

func TestVerifyPaymentUnknownRecord(t *testing.T) {
	_, verificationSvc, ledger := newPaymentFixture()
	seedLedgerAccount(ledger, "CID-3007", "50000", "15000", "15000")

	_, err := verificationSvc.VerifyPayment(context.Background(), "CID-3007", "PAY-missing", &VerifyInput{
		Decision: "SUCCESS",
	})
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestListPendingVerification(t *testing.T) {
	paymentSvc, verificationSvc, ledger := newPaymentFixture()
	seedLedgerAccount(ledger, "CID-3008", "60000", "40000", "40000")

	_, err := paymentSvc.PartialPayment(context.Background(), "CID-3008", &PartialPaymentInput{
		Amount:        dec("5000"),
		PaymentMethod: "CHEQUE",
		Evidence:      chequeEvidence(),
	})
	require.NoError(t, err)
	_, err = paymentSvc.SettleCredit(context.Background(), "CID-3008", &SettleCreditInput{
		SettledAmount: dec("10000"),
		PaymentMethod: "CHEQUE",
		Evidence:      chequeEvidence(),
	})
	require.NoError(t, err)

	pending, err := verificationSvc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending.Payments, 1)
	assert.Len(t, pending.Settlements, 1)
}
