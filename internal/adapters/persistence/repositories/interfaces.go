package repositories

import (
	"context"
	"time"

	"fuelgenie-api/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	AssignTeamRole(ctx context.Context, userID uint, teamName string, roleID uint) error
	RemoveTeamRole(ctx context.Context, userID uint, teamName string, roleID uint) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// CustomerRepository defines customer repository interface
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByCID(ctx context.Context, cid string) (*models.Customer, error)
	Exists(ctx context.Context, cid string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.Customer, int64, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Customer, error)
}

// RoleRepository defines role repository interface
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id uint) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]*models.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ReplaceSections(ctx context.Context, roleID uint, sections []models.RoleSection) error
	Delete(ctx context.Context, id uint) error
}

// CreditRepository defines credit account repository interface
type CreditRepository interface {
	CreateAccount(ctx context.Context, account *models.CreditAccount) error
	GetAccountByCID(ctx context.Context, cid string) (*models.CreditAccount, error)
	GetAccountByCreditID(ctx context.Context, creditID string) (*models.CreditAccount, error)
	UpdateAccount(ctx context.Context, account *models.CreditAccount) error
	ListAccounts(ctx context.Context, offset, limit int) ([]*models.CreditAccount, int64, error)
	CreateTransaction(ctx context.Context, tx *models.CreditTransaction) error
	GetTransactionByID(ctx context.Context, transactionID string) (*models.CreditTransaction, error)
	GetTransactions(ctx context.Context, creditAccountID uint) ([]*models.CreditTransaction, error)
	GetOutstandingTransactions(ctx context.Context, creditAccountID uint) ([]*models.CreditTransaction, error)
	UpdateTransaction(ctx context.Context, tx *models.CreditTransaction) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
	GetOverdueTransactions(ctx context.Context) ([]*models.CreditTransaction, error)
	CreateExtraCredit(ctx context.Context, extra *models.ExtraCredit) error
	GetExtraCredits(ctx context.Context, creditAccountID uint) ([]*models.ExtraCredit, error)
}

// PaymentRepository defines settlement and partial payment repository interface
type PaymentRepository interface {
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlementByID(ctx context.Context, settlementID string) (*models.Settlement, error)
	UpdateSettlement(ctx context.Context, settlement *models.Settlement) error
	ListSettlements(ctx context.Context, creditAccountID uint) ([]*models.Settlement, error)
	CreatePartialPayment(ctx context.Context, payment *models.PartialPayment) error
	GetPartialPaymentByID(ctx context.Context, paymentID string) (*models.PartialPayment, error)
	UpdatePartialPayment(ctx context.Context, payment *models.PartialPayment) error
	ListPartialPayments(ctx context.Context, creditAccountID uint) ([]*models.PartialPayment, error)
	ListPendingVerification(ctx context.Context) ([]*models.PartialPayment, []*models.Settlement, error)
}
