package handlers

import (
	"errors"

	"fuelgenie-api/internal/core/domain"
	"fuelgenie-api/internal/core/services"
	"fuelgenie-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// VerificationHandler handles cheque and transfer verification endpoints
type VerificationHandler struct {
	verificationService *services.VerificationService
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verificationService *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
	}
}

// ListPending handles listing the verification queue
// @Summary List pending verifications
// @Description List all payments and settlements awaiting a verification decision
// @Tags Verification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /verification/pending [get]
func (h *VerificationHandler) ListPending(c *fiber.Ctx) error {
	pending, err := h.verificationService.ListPending(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list pending verifications")
	}

	return response.Success(c, "Pending verifications retrieved successfully", pending)
}

// VerifyPayment handles deciding a payment's verification
// @Summary Verify payment
// @Description Record a SUCCESS or FAILED verification decision for a pending payment. A FAILED decision requires a reason and restores the provisional ledger clearings.
// @Tags Verification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cid path string true "Customer ID"
// @Param paymentId path string true "Payment ID"
// @Param body body services.VerifyInput true "Verification decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /verification/{cid}/payments/{paymentId} [put]
func (h *VerificationHandler) VerifyPayment(c *fiber.Ctx) error {
	cid := c.Params("cid")
	paymentID := c.Params("paymentId")

	var input services.VerifyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.verificationService.VerifyPayment(c.Context(), cid, paymentID, &input)
	if err != nil {
		return h.mapVerificationError(c, err, "Failed to verify payment")
	}

	return response.Success(c, "Payment verification recorded", fiber.Map{
		"payment": payment,
	})
}

// VerifySettlement handles deciding a settlement's verification
// @Summary Verify settlement
// @Description Record a SUCCESS or FAILED verification decision for a pending settlement. SUCCESS clears the ledger and marks the settlement PAID.
// @Tags Verification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cid path string true "Customer ID"
// @Param settlementId path string true "Settlement ID"
// @Param body body services.VerifyInput true "Verification decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /verification/{cid}/settlements/{settlementId} [put]
func (h *VerificationHandler) VerifySettlement(c *fiber.Ctx) error {
	cid := c.Params("cid")
	settlementID := c.Params("settlementId")

	var input services.VerifyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	settlement, err := h.verificationService.VerifySettlement(c.Context(), cid, settlementID, &input)
	if err != nil {
		return h.mapVerificationError(c, err, "Failed to verify settlement")
	}

	return response.Success(c, "Settlement verification recorded", fiber.Map{
		"settlement": settlement,
	})
}

// mapVerificationError maps verification service errors to HTTP responses
func (h *VerificationHandler) mapVerificationError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrCreditAccountNotFound):
		return response.NotFound(c, "Credit account not found")
	case errors.Is(err, domain.ErrPaymentNotFound):
		return response.NotFound(c, "Payment not found for this customer")
	case errors.Is(err, domain.ErrSettlementNotFound):
		return response.NotFound(c, "Settlement not found for this customer")
	case errors.Is(err, domain.ErrInvalidDecision):
		return response.BadRequest(c, "Verification status must be SUCCESS or FAILED")
	case errors.Is(err, domain.ErrReasonRequired):
		return response.BadRequest(c, "A reason is required when failing a verification")
	case errors.Is(err, domain.ErrVerificationConflict):
		return response.Conflict(c, "This item has already been verified")
	case errors.Is(err, domain.ErrOperationInFlight):
		return response.Conflict(c, "Another payment for this customer is in progress")
	default:
		return response.InternalServerError(c, fallback)
	}
}
