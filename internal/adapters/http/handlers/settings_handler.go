package handlers

import (
	"homework-desk/internal/adapters/http/middleware"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/core/services"
	"homework-desk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles seasons, owner PINs, the balance and investment goals
type SettingsHandler struct {
	settingsService *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// SeasonRequest activates a season; an empty seasonId deactivates
type SeasonRequest struct {
	SeasonID string `json:"seasonId"`
}

// PinVerifyRequest unlocks an owner panel
type PinVerifyRequest struct {
	Kind services.PinKind `json:"kind"`
	Pin  string           `json:"pin"`
}

// InvestmentModeRequest selects the goal allocation
type InvestmentModeRequest struct {
	Mode domain.InvestmentMode `json:"mode"`
}

// Seasons returns the season catalog with the active offer
// @Summary Season offers
// @Tags Seasons
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /seasons [get]
func (h *SettingsHandler) Seasons(c *fiber.Ctx) error {
	catalog, err := h.settingsService.Seasons(c.Context())
	if err != nil {
		return fail(c, err, "Failed to get seasons")
	}
	return response.Success(c, "Seasons retrieved successfully", catalog)
}

// BannerClick counts a click on the season banner
// @Summary Count banner click
// @Tags Seasons
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /seasons/banner-click [post]
func (h *SettingsHandler) BannerClick(c *fiber.Ctx) error {
	if err := h.settingsService.BannerClick(c.Context()); err != nil {
		return fail(c, err, "Failed to record click")
	}
	return response.Success(c, "Click recorded", nil)
}

// SetSeason activates or clears the season offer
// @Summary Set active season
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Dashboard-Pin header string true "Dashboard PIN"
// @Param body body SeasonRequest true "Season"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/season [put]
func (h *SettingsHandler) SetSeason(c *fiber.Ctx) error {
	var req SeasonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	catalog, err := h.settingsService.SetSeason(c.Context(), req.SeasonID)
	if err != nil {
		return fail(c, err, "Failed to set season")
	}
	return response.Success(c, "Season updated successfully", catalog)
}

// VerifyPin checks a panel PIN before the client unlocks that panel
// @Summary Verify panel PIN
// @Tags Owner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PinVerifyRequest true "PIN"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /owner/pins/verify [post]
func (h *SettingsHandler) VerifyPin(c *fiber.Ctx) error {
	var req PinVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.settingsService.VerifyPanelPin(c.Context(), req.Kind, req.Pin); err != nil {
		return fail(c, err, "Failed to verify PIN")
	}
	return response.Success(c, "PIN verified", fiber.Map{"verified": true})
}

// ChangePin replaces one of the owner's PINs
// @Summary Change owner PIN
// @Tags Owner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Verification-Pin header string true "Verification panel PIN"
// @Param kind path string true "login, admin or dashboard"
// @Param body body services.PinChangeInput true "New PIN"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /owner/pins/{kind} [put]
func (h *SettingsHandler) ChangePin(c *fiber.Ctx) error {
	var req services.PinChangeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	kind := services.PinKind(c.Params("kind"))
	if err := h.settingsService.ChangePin(c.Context(), middleware.CurrentUser(c).ID, kind, &req); err != nil {
		return fail(c, err, "Failed to change PIN")
	}
	return response.Success(c, "PIN changed successfully", nil)
}

// Investment returns the balance split over the savings goals
// @Summary Investment goals
// @Tags Owner
// @Produce json
// @Security BearerAuth
// @Param X-Verification-Pin header string true "Verification panel PIN"
// @Success 200 {object} response.Response
// @Router /owner/investment [get]
func (h *SettingsHandler) Investment(c *fiber.Ctx) error {
	summary, err := h.settingsService.Investment(c.Context())
	if err != nil {
		return fail(c, err, "Failed to get investment summary")
	}
	return response.Success(c, "Investment summary retrieved successfully", summary)
}

// SetInvestmentMode selects the goal allocation
// @Summary Set investment mode
// @Tags Owner
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Verification-Pin header string true "Verification panel PIN"
// @Param body body InvestmentModeRequest true "Mode"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /owner/investment-mode [put]
func (h *SettingsHandler) SetInvestmentMode(c *fiber.Ctx) error {
	var req InvestmentModeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	summary, err := h.settingsService.SetInvestmentMode(c.Context(), req.Mode)
	if err != nil {
		return fail(c, err, "Failed to set investment mode")
	}
	return response.Success(c, "Investment mode updated successfully", summary)
}

// ResyncBalance recomputes the balance from approved payments
// @Summary Resync balance
// @Tags Owner
// @Produce json
// @Security BearerAuth
// @Param X-Verification-Pin header string true "Verification panel PIN"
// @Success 200 {object} response.Response
// @Router /owner/balance/resync [post]
func (h *SettingsHandler) ResyncBalance(c *fiber.Ctx) error {
	balance, drift, err := h.settingsService.ResyncBalance(c.Context())
	if err != nil {
		return fail(c, err, "Failed to resync balance")
	}
	return response.Success(c, "Balance resynced", fiber.Map{
		"balance": balance,
		"drift":   drift,
	})
}
