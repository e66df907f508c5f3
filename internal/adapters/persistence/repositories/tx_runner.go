package repositories

import (
	"context"

	"fuelgenie-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// LedgerStore exposes the writes a payment or verification flow performs
// inside one atomic unit. Every method sees the same transaction.
type LedgerStore interface {
	CreateTransaction(entry *models.CreditTransaction) error
	SaveTransaction(row *models.CreditTransaction) error
	TransactionByID(transactionID string) (*models.CreditTransaction, error)
	OutstandingTransactions(creditAccountID uint) ([]*models.CreditTransaction, error)
	CreateSettlement(settlement *models.Settlement) error
	SaveSettlement(settlement *models.Settlement) error
	CreatePayment(payment *models.PartialPayment) error
	SavePayment(payment *models.PartialPayment) error
	SaveClearing(clearing *models.ClearedTransaction) error
	SaveAccount(account *models.CreditAccount) error
}

// TxRunner runs a function against a LedgerStore atomically: if the function
// returns an error nothing it wrote is kept.
type TxRunner interface {
	InTx(ctx context.Context, fn func(store LedgerStore) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

// NewTxRunner creates a TxRunner backed by database transactions
func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(store LedgerStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerStore{tx: tx})
	})
}

type gormLedgerStore struct {
	tx *gorm.DB
}

func (s *gormLedgerStore) CreateTransaction(entry *models.CreditTransaction) error {
	return s.tx.Create(entry).Error
}

func (s *gormLedgerStore) SaveTransaction(row *models.CreditTransaction) error {
	return s.tx.Save(row).Error
}

func (s *gormLedgerStore) TransactionByID(transactionID string) (*models.CreditTransaction, error) {
	var row models.CreditTransaction
	if err := s.tx.Where("transaction_id = ?", transactionID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *gormLedgerStore) OutstandingTransactions(creditAccountID uint) ([]*models.CreditTransaction, error) {
	var rows []*models.CreditTransaction
	err := s.tx.
		Where("credit_account_id = ? AND remaining > 0", creditAccountID).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *gormLedgerStore) CreateSettlement(settlement *models.Settlement) error {
	return s.tx.Create(settlement).Error
}

func (s *gormLedgerStore) SaveSettlement(settlement *models.Settlement) error {
	return s.tx.Save(settlement).Error
}

func (s *gormLedgerStore) CreatePayment(payment *models.PartialPayment) error {
	return s.tx.Create(payment).Error
}

func (s *gormLedgerStore) SavePayment(payment *models.PartialPayment) error {
	return s.tx.Save(payment).Error
}

func (s *gormLedgerStore) SaveClearing(clearing *models.ClearedTransaction) error {
	return s.tx.Save(clearing).Error
}

func (s *gormLedgerStore) SaveAccount(account *models.CreditAccount) error {
	return s.tx.Save(account).Error
}
