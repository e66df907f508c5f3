package repositories

import (
	"context"

	"fuelgenie-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// customerRepository implements CustomerRepository interface
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// Create creates a new customer
func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// GetByCID gets a customer by customer ID
func (r *customerRepository) GetByCID(ctx context.Context, cid string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("cid = ?", cid).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Exists checks if a customer exists by customer ID
func (r *customerRepository) Exists(ctx context.Context, cid string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("cid = ?", cid).Count(&count).Error
	return count > 0, err
}

// List lists customers with pagination
func (r *customerRepository) List(ctx context.Context, offset, limit int) ([]*models.Customer, int64, error) {
	var customers []*models.Customer
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

// Search finds customers whose CID, business name or contact name matches the query
func (r *customerRepository) Search(ctx context.Context, query string, limit int) ([]*models.Customer, error) {
	var customers []*models.Customer
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("cid LIKE ? OR business_name LIKE ? OR contact_name LIKE ?", like, like, like).
		Limit(limit).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}
