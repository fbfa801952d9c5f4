package handlers

import (
	"strconv"

	"homework-desk/internal/adapters/http/middleware"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/core/pricing"
	"homework-desk/internal/core/services"
	"homework-desk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// RequestHandler handles pricing and homework request endpoints
type RequestHandler struct {
	requestService *services.RequestService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// StatusRequest changes a request's progress status
type StatusRequest struct {
	Status domain.HomeworkStatus `json:"status"`
}

// PaymentStatusRequest records COD collection
type PaymentStatusRequest struct {
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
}

// Quote prices a draft without saving it
// @Summary Price a draft
// @Tags Pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.QuoteInput true "Draft"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /pricing/quote [post]
func (h *RequestHandler) Quote(c *fiber.Ctx) error {
	var req services.QuoteInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	quote, err := h.requestService.Quote(c.Context(), &req)
	if err != nil {
		return fail(c, err, "Failed to calculate price")
	}
	return response.Success(c, "Price calculated", quote)
}

// Rates returns the static price list
// @Summary Price list
// @Tags Pricing
// @Produce json
// @Success 200 {object} response.Response
// @Router /pricing/rates [get]
func (h *RequestHandler) Rates(c *fiber.Ctx) error {
	surcharges := make(fiber.Map)
	for days := 1; days <= 4; days++ {
		surcharges[strconv.Itoa(days)] = pricing.SurchargePercent(days)
	}

	return response.Success(c, "Rates retrieved successfully", fiber.Map{
		"pageRate":          pricing.PageRate,
		"lessonRate":        pricing.LessonRate,
		"coreSubjectRate":   pricing.CoreSubjectRate,
		"deliverySurcharge": surcharges,
		"onlineDiscount":    decimal.NewFromInt(1).Sub(pricing.OnlineBonusFactor).Shift(2),
	})
}

// Create places a new homework request
// @Summary Create homework request
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.DraftInput true "Order form"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var req services.DraftInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	created, err := h.requestService.Create(c.Context(), middleware.CurrentUser(c).ID, &req)
	if err != nil {
		return fail(c, err, "Failed to create request")
	}
	return response.Created(c, "Request created successfully", created)
}

// Mine returns the caller's dashboard
// @Summary My requests
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /requests/mine [get]
func (h *RequestHandler) Mine(c *fiber.Ctx) error {
	dashboard, err := h.requestService.ListMine(c.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err, "Failed to get requests")
	}
	return response.Success(c, "Requests retrieved successfully", dashboard)
}

// Get returns one request
// @Summary Get request
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	view, err := h.requestService.Get(c.Context(), middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to get request")
	}
	return response.Success(c, "Request retrieved successfully", view)
}

// ListAll returns every request for the owner
// @Summary List all requests
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param X-Dashboard-Pin header string true "Dashboard PIN"
// @Success 200 {object} response.Response
// @Router /admin/requests [get]
func (h *RequestHandler) ListAll(c *fiber.Ctx) error {
	views, err := h.requestService.ListAll(c.Context())
	if err != nil {
		return fail(c, err, "Failed to list requests")
	}
	return response.Success(c, "Requests retrieved successfully", views)
}

// UpdateStatus changes a request's progress status
// @Summary Update request status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Dashboard-Pin header string true "Dashboard PIN"
// @Param id path string true "Request ID"
// @Param body body StatusRequest true "Status"
// @Success 200 {object} response.Response
// @Router /admin/requests/{id}/status [put]
func (h *RequestHandler) UpdateStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updated, err := h.requestService.UpdateStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return fail(c, err, "Failed to update status")
	}
	return response.Success(c, "Status updated successfully", updated)
}

// UpdatePaymentStatus marks a COD request paid or unpaid
// @Summary Update COD payment
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Dashboard-Pin header string true "Dashboard PIN"
// @Param id path string true "Request ID"
// @Param body body PaymentStatusRequest true "Payment status"
// @Success 200 {object} response.Response
// @Router /admin/requests/{id}/payment [put]
func (h *RequestHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	var req PaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updated, err := h.requestService.UpdatePaymentStatus(c.Context(), c.Params("id"), req.PaymentStatus)
	if err != nil {
		return fail(c, err, "Failed to update payment status")
	}
	return response.Success(c, "Payment status updated successfully", updated)
}
