package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatePaymentOldestFirst(t *testing.T) {
	outstanding := []*LedgerTransaction{
		{TransactionID: "T1", Remaining: dec("2000")},
		{TransactionID: "T2", Remaining: dec("3000")},
		{TransactionID: "T3", Remaining: dec("1000")},
	}

	cleared, total, err := AllocatePayment(dec("4500"), outstanding, false)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("4500")))

	require.Len(t, cleared, 2)
	assert.Equal(t, "T1", cleared[0].TransactionID)
	assert.True(t, cleared[0].AmountCleared.Equal(dec("2000")))
	assert.True(t, cleared[0].RemainingAmount.IsZero())

	assert.Equal(t, "T2", cleared[1].TransactionID)
	assert.True(t, cleared[1].AmountCleared.Equal(dec("2500")))
	assert.True(t, cleared[1].RemainingAmount.Equal(dec("500")))

	// T3 untouched, T1/T2 reduced in place.
	assert.True(t, outstanding[2].Remaining.Equal(dec("1000")))
	assert.True(t, outstanding[1].Remaining.Equal(dec("500")))
}

func TestAllocatePaymentNeverExceedsRemaining(t *testing.T) {
	outstanding := []*LedgerTransaction{
		{TransactionID: "T1", Remaining: dec("2000")},
	}

	cleared, total, err := AllocatePayment(dec("500"), outstanding, true)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("500")))
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].Provisional)
	assert.True(t, cleared[0].AmountCleared.Equal(dec("500")))
	assert.True(t, cleared[0].RemainingAmount.Equal(dec("1500")))
}

func TestAllocatePaymentSkipsSettledEntries(t *testing.T) {
	outstanding := []*LedgerTransaction{
		{TransactionID: "T1", Remaining: decimal.Zero},
		{TransactionID: "T2", Remaining: dec("700")},
	}

	cleared, total, err := AllocatePayment(dec("1000"), outstanding, false)
	require.NoError(t, err)
	// Only 700 outstanding in total; allocation stops there.
	assert.True(t, total.Equal(dec("700")))
	require.Len(t, cleared, 1)
	assert.Equal(t, "T2", cleared[0].TransactionID)
}

func TestAllocatePaymentRejectsNonPositiveAmount(t *testing.T) {
	_, _, err := AllocatePayment(decimal.Zero, nil, false)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)

	_, _, err = AllocatePayment(dec("-10"), nil, false)
	assert.ErrorIs(t, err, ErrNonPositiveAmount)
}

func TestPaymentMethodVerificationRequirement(t *testing.T) {
	assert.False(t, MethodCash.RequiresVerification())
	assert.True(t, MethodCheque.RequiresVerification())
	assert.True(t, MethodAccountTransfer.RequiresVerification())

	_, err := ParsePaymentMethod("BARTER")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestValidateEvidence(t *testing.T) {
	require.NoError(t, ValidateEvidence(MethodCash, nil, nil))

	cheque := &ChequeEvidence{
		ChequeNumber:       "CHQ-1001",
		BankName:           "HDFC",
		ChequeIssuedDate:   time.Now(),
		ChequeReceivedDate: time.Now(),
		ChequeImagePath:    "uploads/chq-1001.jpg",
	}
	require.NoError(t, ValidateEvidence(MethodCheque, cheque, nil))

	// Image is mandatory collateral evidence.
	noImage := *cheque
	noImage.ChequeImagePath = ""
	assert.ErrorIs(t, ValidateEvidence(MethodCheque, &noImage, nil), ErrMissingChequeEvidence)
	assert.ErrorIs(t, ValidateEvidence(MethodCheque, nil, nil), ErrMissingChequeEvidence)

	transfer := &TransferEvidence{
		UTR:         "UTR123456",
		ReferenceID: "REF-9",
		ToAccount:   "FG-COLLECTIONS",
		FromAccount: "CUST-889",
		PaymentDate: time.Now(),
	}
	require.NoError(t, ValidateEvidence(MethodAccountTransfer, nil, transfer))

	noUTR := *transfer
	noUTR.UTR = ""
	assert.ErrorIs(t, ValidateEvidence(MethodAccountTransfer, nil, &noUTR), ErrMissingTransferEvidence)
}

func TestCheckVerificationSingleShot(t *testing.T) {
	// Pending record accepts either terminal decision.
	require.NoError(t, CheckVerification(VerificationPending, VerificationSuccess, ""))
	require.NoError(t, CheckVerification(VerificationPending, VerificationFailed, "bank bounce"))

	// FAILED without a reason is rejected.
	assert.ErrorIs(t, CheckVerification(VerificationPending, VerificationFailed, ""), ErrReasonRequired)

	// Terminal records reject a second drive with a distinct conflict error.
	assert.ErrorIs(t, CheckVerification(VerificationSuccess, VerificationSuccess, ""), ErrVerificationConflict)
	assert.ErrorIs(t, CheckVerification(VerificationFailed, VerificationSuccess, ""), ErrVerificationConflict)

	_, err := ParseDecision("MAYBE")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}
