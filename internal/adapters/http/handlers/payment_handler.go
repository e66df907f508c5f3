package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fuelgenie-api/internal/config"
	"fuelgenie-api/internal/core/domain"
	"fuelgenie-api/internal/core/services"
	"fuelgenie-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles settlement and payment endpoints. Cheque and
// transfer evidence arrives as multipart form data with file attachments.
type PaymentHandler struct {
	paymentService *services.PaymentService
	cfg            *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		cfg:            cfg,
	}
}

// SettleCredit handles settling a credit account
// @Summary Settle credit
// @Description Settle a credit account, optionally bundled with a term revision. Cheque and transfer evidence is sent as multipart form data.
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param cid path string true "Customer ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/{cid}/settle [post]
func (h *PaymentHandler) SettleCredit(c *fiber.Ctx) error {
	cid := c.Params("cid")

	settledAmount, err := decimal.NewFromString(c.FormValue("settled_amount"))
	if err != nil {
		return response.BadRequest(c, "Settled amount is required and must be a number")
	}

	input := &services.SettleCreditInput{
		SettledAmount: settledAmount,
		PaymentMethod: c.FormValue("payment_method"),
	}

	// Optional bundled re-term
	if v := c.FormValue("credit_amount"); v != "" {
		amt, err := decimal.NewFromString(v)
		if err != nil {
			return response.BadRequest(c, "Credit amount must be a number")
		}
		input.CreditAmount = amt
	}
	if v := c.FormValue("credit_period"); v != "" {
		period, err := parsePositiveInt(v)
		if err != nil {
			return response.BadRequest(c, "Credit period must be a positive number of days")
		}
		input.CreditPeriod = period
	}
	if v := c.FormValue("interest_rate"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return response.BadRequest(c, "Interest rate must be a number")
		}
		input.InterestRate = rate
	}

	evidence, err := h.parseEvidence(c, cid, input.PaymentMethod)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	input.Evidence = *evidence

	settlement, err := h.paymentService.SettleCredit(c.Context(), cid, input)
	if err != nil {
		h.discardEvidenceFiles(&input.Evidence)
		return h.mapPaymentError(c, err, "Failed to settle credit")
	}

	return response.Created(c, "Settlement recorded successfully", fiber.Map{
		"settlement": settlement,
	})
}

// PartialPayment handles recording a partial payment
// @Summary Record partial payment
// @Description Record a partial payment against the outstanding ledger. Cheque and transfer payments stay pending until verified.
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param cid path string true "Customer ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/{cid}/partial [post]
func (h *PaymentHandler) PartialPayment(c *fiber.Ctx) error {
	cid := c.Params("cid")

	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil {
		return response.BadRequest(c, "Amount is required and must be a number")
	}

	input := &services.PartialPaymentInput{
		Amount:        amount,
		PaymentMethod: c.FormValue("payment_method"),
	}

	evidence, err := h.parseEvidence(c, cid, input.PaymentMethod)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	input.Evidence = *evidence

	payment, err := h.paymentService.PartialPayment(c.Context(), cid, input)
	if err != nil {
		h.discardEvidenceFiles(&input.Evidence)
		return h.mapPaymentError(c, err, "Failed to record payment")
	}

	return response.Created(c, "Payment recorded successfully", fiber.Map{
		"payment": payment,
	})
}

// PayTotal handles paying off the full amount due
// @Summary Pay total due
// @Description Pay off the full outstanding amount in one payment
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param cid path string true "Customer ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/{cid}/pay-total [post]
func (h *PaymentHandler) PayTotal(c *fiber.Ctx) error {
	cid := c.Params("cid")

	input := &services.PayTotalInput{
		PaymentMethod: c.FormValue("payment_method"),
	}

	evidence, err := h.parseEvidence(c, cid, input.PaymentMethod)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	input.Evidence = *evidence

	payment, err := h.paymentService.PayTotal(c.Context(), cid, input)
	if err != nil {
		h.discardEvidenceFiles(&input.Evidence)
		return h.mapPaymentError(c, err, "Failed to pay total")
	}

	return response.Created(c, "Payment recorded successfully", fiber.Map{
		"payment": payment,
	})
}

// ListPayments handles listing payment history for a customer
// @Summary List payments
// @Description List all partial payments and settlements for a customer
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cid path string true "Customer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{cid} [get]
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	cid := c.Params("cid")

	payments, settlements, err := h.paymentService.ListPayments(c.Context(), cid)
	if err != nil {
		if errors.Is(err, services.ErrCreditAccountNotFound) {
			return response.NotFound(c, "Credit account not found")
		}
		return response.InternalServerError(c, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved successfully", fiber.Map{
		"payments":    payments,
		"settlements": settlements,
	})
}

// parseEvidence assembles cheque or transfer evidence from the multipart
// form, saving attached files under the upload directory. Cash needs none.
func (h *PaymentHandler) parseEvidence(c *fiber.Ctx, cid, paymentMethod string) (*services.EvidenceInput, error) {
	method, err := domain.ParsePaymentMethod(paymentMethod)
	if err != nil {
		return nil, errors.New("Payment method must be CASH, CHEQUE, or ACCOUNT_TRANSFER")
	}

	evidence := &services.EvidenceInput{}
	switch method {
	case domain.MethodCheque:
		// Validate the cheap fields before anything touches the disk
		issued, err := parseFormDate(c.FormValue("cheque_issued_date"))
		if err != nil {
			return nil, errors.New("Cheque issued date must be YYYY-MM-DD")
		}
		received, err := parseFormDate(c.FormValue("cheque_received_date"))
		if err != nil {
			return nil, errors.New("Cheque received date must be YYYY-MM-DD")
		}
		imagePath, err := h.saveEvidenceFile(c, "cheque_image", cid)
		if err != nil {
			return nil, err
		}
		evidence.Cheque = &domain.ChequeEvidence{
			ChequeNumber:       c.FormValue("cheque_number"),
			BankName:           c.FormValue("bank_name"),
			ChequeIssuedDate:   issued,
			ChequeReceivedDate: received,
			ChequeImagePath:    imagePath,
		}
	case domain.MethodAccountTransfer:
		paymentDate, err := parseFormDate(c.FormValue("payment_date"))
		if err != nil {
			return nil, errors.New("Payment date must be YYYY-MM-DD")
		}
		receiptPath, err := h.saveEvidenceFile(c, "receipt", cid)
		if err != nil {
			return nil, err
		}
		evidence.Transfer = &domain.TransferEvidence{
			UTR:                   c.FormValue("utr"),
			ReferenceID:           c.FormValue("reference_id"),
			ToAccount:             c.FormValue("to_account"),
			FromAccount:           c.FormValue("from_account"),
			PaymentDate:           paymentDate,
			Remarks:               c.FormValue("remarks"),
			Network:               c.FormValue("network"),
			ManualReleaseRequired: c.FormValue("manual_release_required") == "true",
			TransactionStatus:     c.FormValue("transaction_status"),
			ReceiptPath:           receiptPath,
		}
	}

	return evidence, nil
}

// saveEvidenceFile stores an uploaded file under <uploadDir>/<cid>/ with a
// generated name and returns the stored path. Returns an error if the file
// is missing or exceeds the configured size limit.
func (h *PaymentHandler) saveEvidenceFile(c *fiber.Ctx, field, cid string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("%s file is required", field)
	}

	maxBytes := int64(h.cfg.Upload.MaxSizeMB) << 20
	if file.Size > maxBytes {
		return "", fmt.Errorf("%s exceeds the %dMB upload limit", field, h.cfg.Upload.MaxSizeMB)
	}

	dir := filepath.Join(h.cfg.Upload.Dir, cid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.New("Failed to prepare upload directory")
	}

	name := uuid.New().String() + filepath.Ext(file.Filename)
	path := filepath.Join(dir, name)
	if err := c.SaveFile(file, path); err != nil {
		return "", errors.New("Failed to save uploaded file")
	}

	return path, nil
}

// discardEvidenceFiles removes evidence files saved for a submission the
// service rejected, so nothing orphaned accumulates under the upload dir
func (h *PaymentHandler) discardEvidenceFiles(evidence *services.EvidenceInput) {
	if evidence.Cheque != nil && evidence.Cheque.ChequeImagePath != "" {
		_ = os.Remove(evidence.Cheque.ChequeImagePath)
	}
	if evidence.Transfer != nil && evidence.Transfer.ReceiptPath != "" {
		_ = os.Remove(evidence.Transfer.ReceiptPath)
	}
}

// mapPaymentError maps service errors to HTTP responses shared by the
// settle, partial, and pay-total endpoints.
func (h *PaymentHandler) mapPaymentError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrCreditAccountNotFound):
		return response.NotFound(c, "Credit account not found")
	case errors.Is(err, domain.ErrOperationInFlight):
		return response.Conflict(c, "Another payment for this customer is in progress")
	case errors.Is(err, domain.ErrNothingOutstanding):
		return response.BadRequest(c, "No outstanding amount to pay")
	case errors.Is(err, domain.ErrPaymentExceedsDue):
		return response.BadRequest(c, "Payment exceeds the outstanding amount")
	case errors.Is(err, domain.ErrNonPositiveAmount):
		return response.BadRequest(c, "Amount must be positive")
	case errors.Is(err, domain.ErrInvalidPaymentMethod):
		return response.BadRequest(c, "Payment method must be CASH, CHEQUE, or ACCOUNT_TRANSFER")
	case errors.Is(err, domain.ErrMissingChequeEvidence):
		return response.BadRequest(c, "Cheque number, bank name, image, and dates are required")
	case errors.Is(err, domain.ErrMissingTransferEvidence):
		return response.BadRequest(c, "Transfer UTR, reference, accounts, and payment date are required")
	case errors.Is(err, domain.ErrLedgerCorrupt):
		return response.InternalServerError(c, "Credit ledger is inconsistent, contact support")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// parseFormDate parses a YYYY-MM-DD form value
func parseFormDate(v string) (time.Time, error) {
	return time.Parse("2006-01-02", v)
}

// parsePositiveInt parses a strictly positive integer form value
func parsePositiveInt(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}
