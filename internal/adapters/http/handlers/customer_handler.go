package handlers

import (
	"errors"
	"strconv"

	"fuelgenie-api/internal/core/services"
	"fuelgenie-api/internal/pkg/pagination"
	"fuelgenie-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	customerService *services.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// CreateCustomer handles onboarding a customer
// @Summary Create customer
// @Description Onboard a new fuel customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateCustomerInput true "Customer data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var input services.CreateCustomerInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.CID == "" {
		return response.BadRequest(c, "Customer ID is required")
	}
	if input.BusinessName == "" {
		return response.BadRequest(c, "Business name is required")
	}

	customer, err := h.customerService.CreateCustomer(c.Context(), &input)
	if err != nil {
		if errors.Is(err, services.ErrCustomerExists) {
			return response.Conflict(c, "Customer ID already exists")
		}
		return response.InternalServerError(c, "Failed to create customer")
	}

	return response.Created(c, "Customer created successfully", fiber.Map{
		"customer": customer,
	})
}

// GetCustomer handles getting a customer by CID
// @Summary Get customer
// @Description Get a customer by their customer ID
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cid path string true "Customer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/{cid} [get]
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	cid := c.Params("cid")

	customer, err := h.customerService.GetCustomer(c.Context(), cid)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return response.NotFound(c, "Customer not found")
		}
		return response.InternalServerError(c, "Failed to get customer")
	}

	return response.Success(c, "Customer retrieved successfully", fiber.Map{
		"customer": customer,
	})
}

// ListCustomers handles listing customers
// @Summary List customers
// @Description List customers with pagination
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	customers, total, err := h.customerService.ListCustomers(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list customers")
	}

	return response.Success(c, "Customers retrieved successfully",
		pagination.NewResponse(customers, params, total))
}

// SearchCustomers handles searching customers
// @Summary Search customers
// @Description Search customers by CID, business name, or contact name
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Param limit query int false "Max results" default(20)
// @Success 200 {object} response.Response
// @Router /customers/search [get]
func (h *CustomerHandler) SearchCustomers(c *fiber.Ctx) error {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	customers, err := h.customerService.SearchCustomers(c.Context(), query, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to search customers")
	}

	return response.Success(c, "Customers retrieved successfully", fiber.Map{
		"customers": customers,
	})
}
