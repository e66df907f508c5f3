package handlers

import (
	"errors"

	"fuelgenie-api/internal/core/domain"
	"fuelgenie-api/internal/core/services"
	"fuelgenie-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CreditHandler handles credit account endpoints
type CreditHandler struct {
	creditService *services.CreditService
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(creditService *services.CreditService) *CreditHandler {
	return &CreditHandler{
		creditService: creditService,
	}
}

// CreateAccount handles opening a credit account for a customer
// @Summary Create credit account
// @Description Open a credit account for an onboarded customer
// @Tags Credit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateAccountInput true "Account terms"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /credit/accounts [post]
func (h *CreditHandler) CreateAccount(c *fiber.Ctx) error {
	var input services.CreateAccountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.CID == "" {
		return response.BadRequest(c, "Customer ID is required")
	}
	if input.CreditPeriod <= 0 {
		return response.BadRequest(c, "Credit period must be at least 1 day")
	}

	account, err := h.creditService.CreateAccount(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		case errors.Is(err, services.ErrCreditAccountExists):
			return response.Conflict(c, "Customer already has a credit account")
		case errors.Is(err, domain.ErrNonPositiveAmount):
			return response.BadRequest(c, "Credit amount must be positive")
		default:
			return response.InternalServerError(c, "Failed to create credit account")
		}
	}

	return response.Created(c, "Credit account created successfully", fiber.Map{
		"account": account,
	})
}

// GetCreditInfo handles the full account view for a customer
// @Summary Get credit info
// @Description Get a customer's credit account, amount due, eligibility flags, and ledger
// @Tags Credit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cid path string true "Customer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /credit/{cid} [get]
func (h *CreditHandler) GetCreditInfo(c *fiber.Ctx) error {
	cid := c.Params("cid")
	if cid == "" {
		return response.BadRequest(c, "Customer ID is required")
	}

	info, err := h.creditService.GetCreditInfo(c.Context(), cid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCreditAccountNotFound):
			return response.NotFound(c, "Credit account not found")
		case errors.Is(err, domain.ErrLedgerCorrupt):
			return response.InternalServerError(c, "Credit ledger is inconsistent, contact support")
		default:
			return response.InternalServerError(c, "Failed to get credit info")
		}
	}

	return response.Success(c, "Credit info retrieved successfully", info)
}

// RecordPurchase handles drawing against a credit account
// @Summary Record credit purchase
// @Description Record a fuel delivery drawn against the customer's credit line
// @Tags Credit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cid path string true "Customer ID"
// @Param body body services.RecordPurchaseInput true "Purchase data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /credit/{cid}/purchases [post]
func (h *CreditHandler) RecordPurchase(c *fiber.Ctx) error {
	cid := c.Params("cid")

	var input services.RecordPurchaseInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	txn, err := h.creditService.RecordPurchase(c.Context(), cid, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCreditAccountNotFound):
			return response.NotFound(c, "Credit account not found")
		case errors.Is(err, domain.ErrNonPositiveAmount):
			return response.BadRequest(c, "Purchase amount must be positive")
		case errors.Is(err, domain.ErrPaymentExceedsDue):
			return response.BadRequest(c, "Purchase would exceed the credit limit")
		default:
			return response.InternalServerError(c, "Failed to record purchase")
		}
	}

	return response.Created(c, "Purchase recorded successfully", fiber.Map{
		"transaction": txn.ToResponse(),
	})
}

// ReviseTerms handles upgrading or downgrading credit terms
// @Summary Revise credit terms
// @Description Change the credit limit, period, or interest rate of an account
// @Tags Credit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cid path string true "Customer ID"
// @Param body body services.ReviseTermsInput true "New terms (zero values keep current)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /credit/{cid}/terms [put]
func (h *CreditHandler) ReviseTerms(c *fiber.Ctx) error {
	cid := c.Params("cid")

	var input services.ReviseTermsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	txn, err := h.creditService.ReviseTerms(c.Context(), cid, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCreditAccountNotFound):
			return response.NotFound(c, "Credit account not found")
		case errors.Is(err, domain.ErrNonPositiveAmount):
			return response.BadRequest(c, "Revised credit amount must be positive")
		default:
			return response.InternalServerError(c, "Failed to revise terms")
		}
	}

	return response.Success(c, "Credit terms revised successfully", fiber.Map{
		"transaction": txn.ToResponse(),
	})
}

// AddExtraCredit handles granting supplementary credit
// @Summary Add extra credit
// @Description Grant a supplementary credit line (only when the account is not active)
// @Tags Credit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cid path string true "Customer ID"
// @Param body body services.ExtraCreditInput true "Extra credit terms"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /credit/{cid}/extra [post]
func (h *CreditHandler) AddExtraCredit(c *fiber.Ctx) error {
	cid := c.Params("cid")

	var input services.ExtraCreditInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	extra, err := h.creditService.AddExtraCredit(c.Context(), cid, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCreditAccountNotFound):
			return response.NotFound(c, "Credit account not found")
		case errors.Is(err, domain.ErrCreditStillActive):
			return response.Conflict(c, "Extra credit is not allowed while the account is active")
		case errors.Is(err, domain.ErrNonPositiveAmount):
			return response.BadRequest(c, "Extra credit amount must be positive")
		default:
			return response.InternalServerError(c, "Failed to add extra credit")
		}
	}

	return response.Created(c, "Extra credit added successfully", fiber.Map{
		"extra_credit": extra,
	})
}
