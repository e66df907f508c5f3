package repositories

import (
	"context"

	"fuelgenie-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// CreateSettlement records a new settlement
func (r *paymentRepository) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	return r.db.WithContext(ctx).Create(settlement).Error
}

// GetSettlementByID gets a settlement by its settlement ID
func (r *paymentRepository) GetSettlementByID(ctx context.Context, settlementID string) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.db.WithContext(ctx).Where("settlement_id = ?", settlementID).First(&settlement).Error
	if err != nil {
		return nil, err
	}
	return &settlement, nil
}

// UpdateSettlement updates a settlement
func (r *paymentRepository) UpdateSettlement(ctx context.Context, settlement *models.Settlement) error {
	return r.db.WithContext(ctx).Save(settlement).Error
}

// ListSettlements lists settlements of an account, newest first
func (r *paymentRepository) ListSettlements(ctx context.Context, creditAccountID uint) ([]*models.Settlement, error) {
	var settlements []*models.Settlement
	err := r.db.WithContext(ctx).
		Where("credit_account_id = ?", creditAccountID).
		Order("settlement_date DESC").
		Find(&settlements).Error
	if err != nil {
		return nil, err
	}
	return settlements, nil
}

// CreatePartialPayment records a partial payment with its cleared
// transaction rows in one insert
func (r *paymentRepository) CreatePartialPayment(ctx context.Context, payment *models.PartialPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetPartialPaymentByID gets a partial payment with its allocation rows
func (r *paymentRepository) GetPartialPaymentByID(ctx context.Context, paymentID string) (*models.PartialPayment, error) {
	var payment models.PartialPayment
	err := r.db.WithContext(ctx).
		Preload("ClearedTransactions").
		Where("payment_id = ?", paymentID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdatePartialPayment updates a partial payment
func (r *paymentRepository) UpdatePartialPayment(ctx context.Context, payment *models.PartialPayment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// ListPartialPayments lists partial payments of an account, newest first
func (r *paymentRepository) ListPartialPayments(ctx context.Context, creditAccountID uint) ([]*models.PartialPayment, error) {
	var payments []*models.PartialPayment
	err := r.db.WithContext(ctx).
		Preload("ClearedTransactions").
		Where("credit_account_id = ?", creditAccountID).
		Order("timestamp DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// ListPendingVerification lists payments and settlements awaiting a
// verification decision. Empty verification status means not yet reviewed.
func (r *paymentRepository) ListPendingVerification(ctx context.Context) ([]*models.PartialPayment, []*models.Settlement, error) {
	var payments []*models.PartialPayment
	err := r.db.WithContext(ctx).
		Preload("ClearedTransactions").
		Where("status = ? AND (verification_status IS NULL OR verification_status = '')", "PENDING_VERIFICATION").
		Order("timestamp ASC").
		Find(&payments).Error
	if err != nil {
		return nil, nil, err
	}

	var settlements []*models.Settlement
	err = r.db.WithContext(ctx).
		Where("status = ? AND payment_method IN ? AND (verification_status IS NULL OR verification_status = '')",
			"PENDING", []string{"CHEQUE", "ACCOUNT_TRANSFER"}).
		Order("settlement_date ASC").
		Find(&settlements).Error
	if err != nil {
		return nil, nil, err
	}

	return payments, settlements, nil
}
