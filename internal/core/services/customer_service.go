package services

import (
	"context"
	"errors"
	"strings"

	"fuelgenie-api/internal/adapters/persistence/models"
	"fuelgenie-api/internal/adapters/persistence/repositories"
)

var (
	ErrCustomerExists = errors.New("customer ID already exists")
)

// CustomerService handles customer onboarding and lookup
type CustomerService struct {
	customerRepo repositories.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repositories.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// CreateCustomerInput represents customer onboarding input
type CreateCustomerInput struct {
	CID          string `json:"cid" validate:"required"`
	BusinessName string `json:"business_name" validate:"required"`
	ContactName  string `json:"contact_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// CreateCustomer onboards a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*models.Customer, error) {
	cid := strings.TrimSpace(input.CID)

	exists, err := s.customerRepo.Exists(ctx, cid)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCustomerExists
	}

	customer := &models.Customer{
		CID:          cid,
		BusinessName: strings.TrimSpace(input.BusinessName),
		ContactName:  strings.TrimSpace(input.ContactName),
		Phone:        strings.TrimSpace(input.Phone),
		Email:        strings.TrimSpace(input.Email),
		IsActive:     true,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer returns a customer by CID
func (s *CustomerService) GetCustomer(ctx context.Context, cid string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByCID(ctx, cid)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// ListCustomers lists customers with offset pagination
func (s *CustomerService) ListCustomers(ctx context.Context, offset, limit int) ([]*models.Customer, int64, error) {
	return s.customerRepo.List(ctx, offset, limit)
}

// SearchCustomers searches customers by CID, business name, or contact name
func (s *CustomerService) SearchCustomers(ctx context.Context, query string, limit int) ([]*models.Customer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Customer{}, nil
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return s.customerRepo.Search(ctx, query, limit)
}
