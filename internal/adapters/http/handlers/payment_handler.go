package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spmcdev/Daily-Collection/internal/core/domain"
	"github.com/spmcdev/Daily-Collection/internal/core/services"
	"github.com/spmcdev/Daily-Collection/internal/pkg/response"
)

// PaymentHandler handles payment endpoints (admin only, gated in routes)
type PaymentHandler struct {
	ledger *services.LedgerService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(ledger *services.LedgerService) *PaymentHandler {
	return &PaymentHandler{ledger: ledger}
}

// List handles GET /payments
// @Summary List payments
// @Description List all payments ordered by loan and week
// @Tags Payments
// @Produce json
// @Success 200 {array} models.Payment
// @Router /payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	payments, err := h.ledger.ListPayments(c.Context())
	if err != nil {
		return h.mapError(c, err)
	}
	return response.OK(c, payments)
}

// Create handles POST /payments. Recording the same (loan_id, week) pair
// again returns the existing payment with 200 instead of creating a
// duplicate, so collection retries are safe.
// @Summary Record weekly payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body services.PaymentInput true "Payment fields"
// @Success 200 {object} models.Payment "Existing payment for this loan and week"
// @Success 201 {object} models.Payment "Newly recorded payment"
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var input services.PaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, created, err := h.ledger.CreatePayment(c.Context(), &input)
	if err != nil {
		return h.mapError(c, err)
	}
	if created {
		return response.Created(c, payment)
	}
	return response.OK(c, payment)
}

// RecordInstallmentRequest identifies the loan week to materialize
type RecordInstallmentRequest struct {
	LoanID uint `json:"loan_id"`
	Week   int  `json:"week"`
}

// RecordInstallment handles POST /payments/installment: it records the
// loan's computed weekly installment as that week's payment.
// @Summary Record computed installment
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body RecordInstallmentRequest true "Loan week"
// @Success 200 {object} models.Payment
// @Success 201 {object} models.Payment
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /payments/installment [post]
func (h *PaymentHandler) RecordInstallment(c *fiber.Ctx) error {
	var req RecordInstallmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, created, err := h.ledger.RecordInstallment(c.Context(), req.LoanID, req.Week)
	if err != nil {
		return h.mapError(c, err)
	}
	if created {
		return response.Created(c, payment)
	}
	return response.OK(c, payment)
}

// Update handles PUT /payments/:id
// @Summary Update payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param body body services.PaymentInput true "Payment fields"
// @Success 200 {object} models.Payment
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /payments/{id} [put]
func (h *PaymentHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Valid payment ID required")
	}

	var input services.PaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.ledger.UpdatePayment(c.Context(), uint(id), &input)
	if err != nil {
		return h.mapError(c, err)
	}
	return response.OK(c, payment)
}

// Delete handles DELETE /payments/:id; the owning loan is untouched
// @Summary Delete payment
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.ErrorBody
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Valid payment ID required")
	}

	if err := h.ledger.DeletePayment(c.Context(), uint(id)); err != nil {
		return h.mapError(c, err)
	}
	return response.Message(c, "Payment deleted successfully")
}

// RejectMassDelete answers DELETE /payments without an id.
func (h *PaymentHandler) RejectMassDelete(c *fiber.Ctx) error {
	return response.BadRequest(c, "Mass deletion not allowed. Please specify a payment ID.")
}

// Purge handles POST /payments/purge with explicit confirmation.
// @Summary Delete all payments
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body PurgeRequest true "Confirmation"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Router /payments/purge [post]
func (h *PaymentHandler) Purge(c *fiber.Ctx) error {
	var req PurgeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if !req.Confirm {
		return response.BadRequest(c, "Bulk deletion requires explicit confirmation")
	}

	if err := h.ledger.DeleteAllPayments(c.Context()); err != nil {
		return h.mapError(c, err)
	}
	return response.Message(c, "All payments deleted")
}

func (h *PaymentHandler) mapError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return response.BadRequest(c, ve.Error())
	case errors.Is(err, domain.ErrLoanNotFound):
		return response.NotFound(c, "Loan not found")
	case errors.Is(err, domain.ErrPaymentNotFound):
		return response.NotFound(c, "Payment not found")
	case errors.Is(err, domain.ErrDuplicateEntry):
		return response.Conflict(c, "A payment already exists for this loan and week")
	default:
		return response.InternalServerError(c, "Storage operation failed")
	}
}
