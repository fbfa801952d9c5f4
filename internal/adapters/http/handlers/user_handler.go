package handlers

import (
	"homework-desk/internal/adapters/http/middleware"
	"homework-desk/internal/core/services"
	"homework-desk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile and student directory endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns the caller's profile
// @Summary Get profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user, err := h.userService.GetProfile(c.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err, "Failed to get profile")
	}
	return response.Success(c, "Profile retrieved successfully", user)
}

// UpdateProfile changes name and phone number
// @Summary Update profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(c.Context(), middleware.CurrentUser(c).ID, &req)
	if err != nil {
		return fail(c, err, "Failed to update profile")
	}
	return response.Success(c, "Profile updated successfully", user)
}

// ChangePin replaces the caller's login PIN
// @Summary Change login PIN
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePinInput true "New PIN"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile/pin [put]
func (h *UserHandler) ChangePin(c *fiber.Ctx) error {
	var req services.ChangePinInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.userService.ChangePin(c.Context(), middleware.CurrentUser(c).ID, &req); err != nil {
		return fail(c, err, "Failed to change PIN")
	}
	return response.Success(c, "PIN changed successfully", nil)
}

// ListStudents lists every account with fee totals
// @Summary List students
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param X-Dashboard-Pin header string true "Dashboard PIN"
// @Success 200 {object} response.Response
// @Router /admin/students [get]
func (h *UserHandler) ListStudents(c *fiber.Ctx) error {
	students, err := h.userService.ListStudents(c.Context())
	if err != nil {
		return fail(c, err, "Failed to list students")
	}
	return response.Success(c, "Students retrieved successfully", students)
}

// GetStudent returns one student with their requests
// @Summary Get student
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param X-Dashboard-Pin header string true "Dashboard PIN"
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/students/{id} [get]
func (h *UserHandler) GetStudent(c *fiber.Ctx) error {
	student, err := h.userService.GetStudent(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to get student")
	}
	return response.Success(c, "Student retrieved successfully", student)
}
