package handlers

import (
	"homework-desk/internal/adapters/http/middleware"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/core/services"
	"homework-desk/internal/pkg/pagination"
	"homework-desk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler handles online payment submission and verification
type TransactionHandler struct {
	transactionService *services.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CorrectionRequest overrides a resolved transaction
type CorrectionRequest struct {
	Status domain.TransactionStatus `json:"status"`
}

// Create submits a payment reference for an Online request
// @Summary Submit payment
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitInput true "Payment reference"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var req services.SubmitInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tx, err := h.transactionService.Create(c.Context(), middleware.CurrentUser(c).ID, &req)
	if err != nil {
		return fail(c, err, "Failed to submit payment")
	}
	return response.Created(c, "Payment submitted for verification", tx)
}

// Mine returns the caller's transactions grouped per request
// @Summary My transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /transactions/mine [get]
func (h *TransactionHandler) Mine(c *fiber.Ctx) error {
	groups, err := h.transactionService.MyGroups(c.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err, "Failed to get transactions")
	}
	return response.Success(c, "Transactions retrieved successfully", groups)
}

// Queue returns the transactions awaiting verification
// @Summary Verification queue
// @Tags Owner
// @Produce json
// @Security BearerAuth
// @Param X-Verification-Pin header string true "Verification panel PIN"
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /owner/transactions/pending [get]
func (h *TransactionHandler) Queue(c *fiber.Ctx) error {
	txs, err := h.transactionService.OwnerQueue(c.Context())
	if err != nil {
		return fail(c, err, "Failed to get pending transactions")
	}
	return response.Success(c, "Pending transactions retrieved successfully", pagination.Window(txs, pagination.GetParams(c)))
}

// History returns resolved transactions
// @Summary Verification history
// @Tags Owner
// @Produce json
// @Security BearerAuth
// @Param X-Verification-Pin header string true "Verification panel PIN"
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /owner/transactions/history [get]
func (h *TransactionHandler) History(c *fiber.Ctx) error {
	txs, err := h.transactionService.History(c.Context())
	if err != nil {
		return fail(c, err, "Failed to get transaction history")
	}
	return response.Success(c, "Transaction history retrieved successfully", pagination.Window(txs, pagination.GetParams(c)))
}

// Approve verifies a payment
// @Summary Approve payment
// @Tags Owner
// @Produce json
// @Security BearerAuth
// @Param X-Verification-Pin header string true "Verification panel PIN"
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /owner/transactions/{id}/approve [post]
func (h *TransactionHandler) Approve(c *fiber.Ctx) error {
	tx, err := h.transactionService.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to approve payment")
	}
	return response.Success(c, "Payment approved", tx)
}

// Reject marks a payment invalid
// @Summary Reject payment
// @Tags Owner
// @Produce json
// @Security BearerAuth
// @Param X-Verification-Pin header string true "Verification panel PIN"
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /owner/transactions/{id}/reject [post]
func (h *TransactionHandler) Reject(c *fiber.Ctx) error {
	tx, err := h.transactionService.Reject(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to reject payment")
	}
	return response.Success(c, "Payment rejected", tx)
}

// Correct overrides a resolved transaction
// @Summary Emergency correction
// @Tags Owner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Verification-Pin header string true "Verification panel PIN"
// @Param id path string true "Transaction ID"
// @Param body body CorrectionRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /owner/transactions/{id}/correct [post]
func (h *TransactionHandler) Correct(c *fiber.Ctx) error {
	var req CorrectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	tx, err := h.transactionService.EmergencyCorrect(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return fail(c, err, "Failed to correct transaction")
	}
	return response.Success(c, "Transaction corrected", tx)
}
