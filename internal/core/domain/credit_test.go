package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCanAddExtraCreditGating(t *testing.T) {
	active := &CreditAccount{Status: CreditStatusActive}
	assert.False(t, active.CanAddExtraCredit())

	settled := &CreditAccount{Status: CreditStatusSettled}
	assert.True(t, settled.CanAddExtraCredit())

	suspended := &CreditAccount{Status: CreditStatusSuspended}
	assert.True(t, suspended.CanAddExtraCredit())
}

func TestCanUpgradeAlwaysTrue(t *testing.T) {
	for _, status := range []CreditStatus{CreditStatusActive, CreditStatusSettled, CreditStatusSuspended} {
		account := &CreditAccount{Status: status}
		assert.True(t, account.CanUpgrade())
	}
}

func TestAmountDue(t *testing.T) {
	account := &CreditAccount{
		CreditAmount:        dec("100000"),
		CurrentCreditAmount: dec("40000"),
	}
	due, err := account.AmountDue()
	require.NoError(t, err)
	assert.True(t, due.Equal(dec("60000")))
}

func TestAmountDueSurfacesLedgerCorruption(t *testing.T) {
	// Drawn above the ceiling must surface as an integrity error, not clamp.
	account := &CreditAccount{
		CreditAmount:        dec("50000"),
		CurrentCreditAmount: dec("60000"),
	}
	_, err := account.AmountDue()
	assert.ErrorIs(t, err, ErrLedgerCorrupt)
}

func TestApplyRevisionRecordsPreviousAndUpgradedTerms(t *testing.T) {
	account := &CreditAccount{
		CreditAmount: dec("100000"),
		CreditPeriod: 30,
		InterestRate: dec("12.5"),
	}

	entry := account.ApplyRevision(TermRevision{
		CreditAmount: dec("150000"),
		InterestRate: dec("11"),
	})

	assert.True(t, account.CreditAmount.Equal(dec("150000")))
	assert.True(t, account.InterestRate.Equal(dec("11")))
	assert.Equal(t, 30, account.CreditPeriod, "zero-valued period keeps current term")

	require.True(t, entry.IsTermRevision())
	assert.True(t, entry.PreviousCreditAmount.Equal(dec("100000")))
	assert.True(t, entry.UpgradedCreditAmount.Equal(dec("150000")))
	assert.True(t, entry.PreviousInterestRate.Equal(dec("12.5")))
	assert.True(t, entry.UpgradedInterestRate.Equal(dec("11")))
	assert.Equal(t, 30, *entry.PreviousCreditPeriod)
	assert.Equal(t, 30, *entry.UpgradedCreditPeriod)
}

func TestLedgerTransactionInitialHasNoRevision(t *testing.T) {
	entry := &LedgerTransaction{TransactionID: "T1", Amount: dec("5000")}
	assert.False(t, entry.IsTermRevision())
}
