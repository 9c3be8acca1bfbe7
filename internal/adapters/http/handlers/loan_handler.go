package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spmcdev/Daily-Collection/internal/core/domain"
	"github.com/spmcdev/Daily-Collection/internal/core/services"
	"github.com/spmcdev/Daily-Collection/internal/pkg/response"
)

// LoanHandler handles loan endpoints (admin only, gated in routes)
type LoanHandler struct {
	ledger *services.LedgerService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(ledger *services.LedgerService) *LoanHandler {
	return &LoanHandler{ledger: ledger}
}

// List handles GET /loans, with an optional id query for a single loan
// @Summary List loans
// @Description List all loans newest first, or fetch one by ?id=
// @Tags Loans
// @Produce json
// @Param id query int false "Loan ID"
// @Success 200 {array} models.Loan
// @Failure 404 {object} response.ErrorBody
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	if idParam := c.Query("id"); idParam != "" {
		id, err := strconv.ParseUint(idParam, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Valid loan ID required")
		}
		loan, err := h.ledger.GetLoan(c.Context(), uint(id))
		if err != nil {
			return h.mapError(c, err)
		}
		return response.OK(c, loan)
	}

	loans, err := h.ledger.ListLoans(c.Context())
	if err != nil {
		return h.mapError(c, err)
	}
	return response.OK(c, loans)
}

// Create handles POST /loans
// @Summary Create loan
// @Tags Loans
// @Accept json
// @Produce json
// @Param body body services.LoanInput true "Loan fields"
// @Success 201 {object} models.Loan
// @Failure 400 {object} response.ErrorBody
// @Router /loans [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	var input services.LoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.ledger.CreateLoan(c.Context(), &input)
	if err != nil {
		return h.mapError(c, err)
	}
	return response.Created(c, loan)
}

// Update handles PUT /loans/:id with partial fields
// @Summary Update loan
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param body body services.LoanPatch true "Fields to update"
// @Success 200 {object} models.Loan
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /loans/{id} [put]
func (h *LoanHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Valid loan ID required")
	}

	var patch services.LoanPatch
	if err := c.BodyParser(&patch); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.ledger.UpdateLoan(c.Context(), uint(id), &patch)
	if err != nil {
		return h.mapError(c, err)
	}
	return response.OK(c, loan)
}

// Delete handles DELETE /loans/:id and cascades to the loan's payments
// @Summary Delete loan
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.ErrorBody
// @Router /loans/{id} [delete]
func (h *LoanHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Valid loan ID required")
	}

	if err := h.ledger.DeleteLoan(c.Context(), uint(id)); err != nil {
		return h.mapError(c, err)
	}
	return response.Message(c, "Loan and related payments deleted successfully")
}

// RejectMassDelete answers DELETE /loans without an id. A missing id is
// never an invitation to wipe the ledger.
func (h *LoanHandler) RejectMassDelete(c *fiber.Ctx) error {
	return response.BadRequest(c, "Mass deletion not allowed. Please specify a loan ID.")
}

// PurgeRequest is the explicit confirmation for bulk destructive actions
type PurgeRequest struct {
	Confirm bool `json:"confirm"`
}

// Purge handles POST /loans/purge, the distinctly named bulk wipe. It
// refuses to run without an explicit confirm flag.
// @Summary Delete all loans and payments
// @Tags Loans
// @Accept json
// @Produce json
// @Param body body PurgeRequest true "Confirmation"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Router /loans/purge [post]
func (h *LoanHandler) Purge(c *fiber.Ctx) error {
	var req PurgeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if !req.Confirm {
		return response.BadRequest(c, "Bulk deletion requires explicit confirmation")
	}

	if err := h.ledger.DeleteAllLoans(c.Context()); err != nil {
		return h.mapError(c, err)
	}
	return response.Message(c, "All loans and payments deleted")
}

func (h *LoanHandler) mapError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return response.BadRequest(c, ve.Error())
	case errors.Is(err, domain.ErrLoanNotFound):
		return response.NotFound(c, "Loan not found")
	default:
		return response.InternalServerError(c, "Storage operation failed")
	}
}
