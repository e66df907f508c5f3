package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardService aggregates portfolio and verification figures for the
// console landing page
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardData represents the console dashboard figures
type DashboardData struct {
	// Customer statistics
	TotalCustomers  int64 `json:"total_customers"`
	ActiveCustomers int64 `json:"active_customers"`

	// Credit portfolio
	TotalAccounts     int64           `json:"total_accounts"`
	ActiveAccounts    int64           `json:"active_accounts"`
	SettledAccounts   int64           `json:"settled_accounts"`
	SuspendedAccounts int64           `json:"suspended_accounts"`
	TotalCreditLimit  decimal.Decimal `json:"total_credit_limit"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`

	// Overdue exposure
	OverdueTransactions int64           `json:"overdue_transactions"`
	OverdueAmount       decimal.Decimal `json:"overdue_amount"`

	// Verification queue
	PendingPayments    int64 `json:"pending_payments"`
	PendingSettlements int64 `json:"pending_settlements"`

	// This month
	PaymentsThisMonth  int64            `json:"payments_this_month"`
	CollectedThisMonth decimal.Decimal  `json:"collected_this_month"`
	RecentPayments     []PaymentSummary `json:"recent_payments"`
	TopOutstanding     []AccountSummary `json:"top_outstanding"`
}

// PaymentSummary is one recent payment row
type PaymentSummary struct {
	PaymentID     string          `json:"payment_id"`
	CID           string          `json:"cid"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
}

// AccountSummary is one high-exposure account row
type AccountSummary struct {
	CreditID            string          `json:"credit_id"`
	CID                 string          `json:"cid"`
	BusinessName        string          `json:"business_name"`
	CreditAmount        decimal.Decimal `json:"credit_amount"`
	CurrentCreditAmount decimal.Decimal `json:"current_credit_amount"`
	Status              string          `json:"status"`
}

// GetDashboard returns the aggregated dashboard figures
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}

	// Customer counts
	s.db.WithContext(ctx).Table("customers").Where("deleted_at IS NULL").Count(&data.TotalCustomers)
	s.db.WithContext(ctx).Table("customers").Where("is_active = ? AND deleted_at IS NULL", true).Count(&data.ActiveCustomers)

	// Credit portfolio counts by status
	s.db.WithContext(ctx).Table("credit_accounts").Where("deleted_at IS NULL").Count(&data.TotalAccounts)
	s.db.WithContext(ctx).Table("credit_accounts").Where("status = ? AND deleted_at IS NULL", "ACTIVE").Count(&data.ActiveAccounts)
	s.db.WithContext(ctx).Table("credit_accounts").Where("status = ? AND deleted_at IS NULL", "SETTLED").Count(&data.SettledAccounts)
	s.db.WithContext(ctx).Table("credit_accounts").Where("status = ? AND deleted_at IS NULL", "SUSPENDED").Count(&data.SuspendedAccounts)

	// Portfolio totals
	s.db.WithContext(ctx).Table("credit_accounts").
		Where("deleted_at IS NULL").
		Select("COALESCE(SUM(credit_amount), 0)").
		Scan(&data.TotalCreditLimit)
	s.db.WithContext(ctx).Table("credit_accounts").
		Where("deleted_at IS NULL").
		Select("COALESCE(SUM(current_credit_amount), 0)").
		Scan(&data.TotalOutstanding)

	// Overdue exposure
	s.db.WithContext(ctx).Table("credit_transactions").
		Where("is_overdue = ? AND remaining > 0", true).
		Count(&data.OverdueTransactions)
	s.db.WithContext(ctx).Table("credit_transactions").
		Where("is_overdue = ? AND remaining > 0", true).
		Select("COALESCE(SUM(remaining), 0)").
		Scan(&data.OverdueAmount)

	// Verification queue
	s.db.WithContext(ctx).Table("partial_payments").
		Where("status = ? AND (verification_status IS NULL OR verification_status = '')", "PENDING_VERIFICATION").
		Count(&data.PendingPayments)
	s.db.WithContext(ctx).Table("settlements").
		Where("status = ? AND payment_method IN ? AND (verification_status IS NULL OR verification_status = '')",
			"PENDING", []string{"CHEQUE", "ACCOUNT_TRANSFER"}).
		Count(&data.PendingSettlements)

	// This month statistics
	startOfMonth := time.Now().AddDate(0, 0, -time.Now().Day()+1).Truncate(24 * time.Hour)
	s.db.WithContext(ctx).Table("partial_payments").
		Where("timestamp >= ?", startOfMonth).
		Count(&data.PaymentsThisMonth)
	s.db.WithContext(ctx).Table("partial_payments").
		Where("timestamp >= ? AND status IN ?", startOfMonth, []string{"SUCCESS", "VERIFIED"}).
		Select("COALESCE(SUM(amount_paid), 0)").
		Scan(&data.CollectedThisMonth)

	// Recent payments
	s.db.WithContext(ctx).Table("partial_payments").
		Joins("JOIN credit_accounts ON credit_accounts.id = partial_payments.credit_account_id").
		Select("partial_payments.payment_id, credit_accounts.cid, partial_payments.amount_paid, partial_payments.payment_method, partial_payments.status, partial_payments.timestamp").
		Order("partial_payments.timestamp DESC").
		Limit(10).
		Scan(&data.RecentPayments)

	// Highest exposure accounts
	s.db.WithContext(ctx).Table("credit_accounts").
		Joins("JOIN customers ON customers.cid = credit_accounts.cid").
		Select("credit_accounts.credit_id, credit_accounts.cid, customers.business_name, credit_accounts.credit_amount, credit_accounts.current_credit_amount, credit_accounts.status").
		Where("credit_accounts.deleted_at IS NULL").
		Order("credit_accounts.current_credit_amount DESC").
		Limit(5).
		Scan(&data.TopOutstanding)

	return data, nil
}
