package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, &CreateCustomerInput{
		CID:          " FG-1001 ",
		BusinessName: "Hilltop Fuels",
		ContactName:  "R. Singh",
	})
	require.NoError(t, err)
	assert.Equal(t, "FG-1001", customer.CID, "CID must be trimmed")
	assert.True(t, customer.IsActive)

	_, err = svc.CreateCustomer(ctx, &CreateCustomerInput{CID: "FG-1001", BusinessName: "Duplicate"})
	assert.ErrorIs(t, err, ErrCustomerExists)
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())

	_, err := svc.GetCustomer(context.Background(), "FG-9999")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestSearchCustomersEmptyQuery(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo())

	results, err := svc.SearchCustomers(context.Background(), "   ", 20)
	require.NoError(t, err)
	assert.Empty(t, results)
}
