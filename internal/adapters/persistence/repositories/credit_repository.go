package repositories

import (
	"context"
	"time"

	"fuelgenie-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// creditRepository implements CreditRepository interface
type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository creates a new credit repository
func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

// CreateAccount creates a new credit account
func (r *creditRepository) CreateAccount(ctx context.Context, account *models.CreditAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// GetAccountByCID gets the credit account of a customer
func (r *creditRepository) GetAccountByCID(ctx context.Context, cid string) (*models.CreditAccount, error) {
	var account models.CreditAccount
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("cid = ?", cid).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByCreditID gets a credit account by its credit ID
func (r *creditRepository) GetAccountByCreditID(ctx context.Context, creditID string) (*models.CreditAccount, error) {
	var account models.CreditAccount
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("credit_id = ?", creditID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount updates a credit account
func (r *creditRepository) UpdateAccount(ctx context.Context, account *models.CreditAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// ListAccounts lists credit accounts with pagination
func (r *creditRepository) ListAccounts(ctx context.Context, offset, limit int) ([]*models.CreditAccount, int64, error) {
	var accounts []*models.CreditAccount
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.CreditAccount{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&accounts).Error
	if err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// CreateTransaction appends a ledger entry
func (r *creditRepository) CreateTransaction(ctx context.Context, tx *models.CreditTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// GetTransactionByID gets a ledger entry by its transaction ID
func (r *creditRepository) GetTransactionByID(ctx context.Context, transactionID string) (*models.CreditTransaction, error) {
	var tx models.CreditTransaction
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetTransactions lists all ledger entries of an account, newest first
func (r *creditRepository) GetTransactions(ctx context.Context, creditAccountID uint) ([]*models.CreditTransaction, error) {
	var txs []*models.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("credit_account_id = ?", creditAccountID).
		Order("date DESC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// GetOutstandingTransactions lists entries with money still owed, oldest
// first. Payment allocation walks this ordering.
func (r *creditRepository) GetOutstandingTransactions(ctx context.Context, creditAccountID uint) ([]*models.CreditTransaction, error) {
	var txs []*models.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("credit_account_id = ? AND remaining > 0", creditAccountID).
		Order("date ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// UpdateTransaction updates a ledger entry
func (r *creditRepository) UpdateTransaction(ctx context.Context, tx *models.CreditTransaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

// MarkOverdue flags outstanding entries whose due date has passed and
// returns how many rows were updated
func (r *creditRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CreditTransaction{}).
		Where("remaining > 0 AND is_overdue = ? AND due_date < ?", false, asOf).
		Update("is_overdue", true)
	return result.RowsAffected, result.Error
}

// GetOverdueTransactions lists outstanding entries already flagged overdue
func (r *creditRepository) GetOverdueTransactions(ctx context.Context) ([]*models.CreditTransaction, error) {
	var txs []*models.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("remaining > 0 AND is_overdue = ?", true).
		Order("due_date ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// CreateExtraCredit records a supplementary credit grant
func (r *creditRepository) CreateExtraCredit(ctx context.Context, extra *models.ExtraCredit) error {
	return r.db.WithContext(ctx).Create(extra).Error
}

// GetExtraCredits lists supplementary grants of an account
func (r *creditRepository) GetExtraCredits(ctx context.Context, creditAccountID uint) ([]*models.ExtraCredit, error) {
	var extras []*models.ExtraCredit
	err := r.db.WithContext(ctx).
		Where("credit_account_id = ?", creditAccountID).
		Order("created_at DESC").
		Find(&extras).Error
	if err != nil {
		return nil, err
	}
	return extras, nil
}
