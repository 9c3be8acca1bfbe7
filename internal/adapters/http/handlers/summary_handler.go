package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spmcdev/Daily-Collection/internal/adapters/http/middleware"
	"github.com/spmcdev/Daily-Collection/internal/core/policy"
	"github.com/spmcdev/Daily-Collection/internal/core/services"
	"github.com/spmcdev/Daily-Collection/internal/pkg/response"
)

// SummaryHandler handles the borrower summary endpoint, the only ledger
// view a user-role account may read.
type SummaryHandler struct {
	ledger *services.LedgerService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(ledger *services.LedgerService) *SummaryHandler {
	return &SummaryHandler{ledger: ledger}
}

// Get handles GET /borrower-summary?borrower_id=
// @Summary Borrower summary
// @Description A borrower's loans plus all payments on those loans
// @Tags Summary
// @Produce json
// @Param borrower_id query string true "Borrower ID"
// @Success 200 {object} services.BorrowerSummary
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /borrower-summary [get]
func (h *SummaryHandler) Get(c *fiber.Ctx) error {
	borrowerID := c.Query("borrower_id")
	if borrowerID == "" {
		return response.BadRequest(c, "Borrower ID required")
	}

	// Data-scope check happens here, not in the route gate, because the
	// target borrower comes from the query string.
	decision := policy.Authorize(middleware.Identity(c), policy.ResourceBorrowerSummary, policy.ActionRead, borrowerID)
	if !decision.Allowed {
		return middleware.DenyResponse(c, decision)
	}

	summary, err := h.ledger.GetBorrowerSummary(c.Context(), borrowerID)
	if err != nil {
		return response.InternalServerError(c, "Storage operation failed")
	}
	return response.OK(c, summary)
}
