package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spmcdev/Daily-Collection/internal/core/domain"
	"github.com/spmcdev/Daily-Collection/internal/core/services"
	"github.com/spmcdev/Daily-Collection/internal/pkg/pagination"
	"github.com/spmcdev/Daily-Collection/internal/pkg/response"
)

// UserHandler handles user management endpoints (admin only, gated in
// routes). Mutations dispatch on an action field like the auth endpoint.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles GET /users
// @Summary List users
// @Tags Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(50)
// @Success 200 {object} pagination.Response
// @Failure 403 {object} response.ErrorBody
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.ListUsers(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.OK(c, pagination.NewResponse(users, params, total))
}

// UserActionRequest represents the /users mutation body
type UserActionRequest struct {
	Action       string  `json:"action"`
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	BorrowerName *string `json:"borrower_name"`
	UserID       uint    `json:"user_id"`
	NewPassword  string  `json:"new_password"`
}

// Mutate handles POST /users with action create_user, reset_password,
// toggle_status or update_role.
// @Summary Mutate users
// @Tags Users
// @Accept json
// @Produce json
// @Param body body UserActionRequest true "User action"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /users [post]
func (h *UserHandler) Mutate(c *fiber.Ctx) error {
	var req UserActionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	switch req.Action {
	case "create_user":
		user, err := h.userService.CreateUser(c.Context(), &services.CreateUserInput{
			Username:     req.Username,
			Password:     req.Password,
			Role:         req.Role,
			BorrowerName: req.BorrowerName,
		})
		if err != nil {
			return h.mapError(c, err)
		}
		return response.OK(c, fiber.Map{"success": true, "user": user})

	case "reset_password":
		if err := h.userService.ResetPassword(c.Context(), req.UserID, req.NewPassword); err != nil {
			return h.mapError(c, err)
		}
		return response.OK(c, fiber.Map{"success": true, "message": "Password reset successfully"})

	case "toggle_status":
		user, err := h.userService.ToggleActive(c.Context(), req.UserID)
		if err != nil {
			return h.mapError(c, err)
		}
		return response.OK(c, fiber.Map{"success": true, "user": user})

	case "update_role":
		user, err := h.userService.UpdateRole(c.Context(), req.UserID, req.Role)
		if err != nil {
			return h.mapError(c, err)
		}
		return response.OK(c, fiber.Map{"success": true, "user": user})

	default:
		return response.BadRequest(c, "Invalid action")
	}
}

// Delete handles DELETE /users/:id
// @Summary Delete user
// @Description Hard-deletes a user account; the last active admin cannot be deleted
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "User ID required")
	}

	if err := h.userService.DeleteUser(c.Context(), uint(id)); err != nil {
		return h.mapError(c, err)
	}
	return response.OK(c, fiber.Map{"success": true, "message": "User deleted successfully"})
}

// RejectMassDelete answers DELETE /users without an id.
func (h *UserHandler) RejectMassDelete(c *fiber.Ctx) error {
	return response.BadRequest(c, "User ID required")
}

func (h *UserHandler) mapError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return response.BadRequest(c, ve.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return response.Conflict(c, "Username already exists")
	case errors.Is(err, domain.ErrLastAdmin):
		return response.BadRequest(c, "At least one active admin must remain")
	default:
		return response.InternalServerError(c, "Storage operation failed")
	}
}
