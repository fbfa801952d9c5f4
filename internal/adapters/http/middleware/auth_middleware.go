package middleware

import (
	"context"
	"errors"
	"strings"

	"homework-desk/internal/config"
	"homework-desk/internal/core/domain"
	"homework-desk/internal/core/services"
	"homework-desk/internal/pkg/jwt"
	"homework-desk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PIN headers for the owner panels
const (
	VerificationPinHeader = "X-Verification-Pin"
	DashboardPinHeader    = "X-Dashboard-Pin"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := tokenFrom(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("phone", claims.Phone)
		c.Locals("isAdmin", claims.IsAdmin)

		return c.Next()
	}
}

// tokenFrom reads the access token from the cookie, then the Authorization header
func tokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	if auth := c.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	// EventSource cannot set headers
	return c.Query("token")
}

// OwnerOnly allows only the owner account
func OwnerOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, ok := c.Locals("isAdmin").(bool)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !isAdmin {
			return response.Forbidden(c, "Owner access required")
		}
		return c.Next()
	}
}

// PinVerifier checks an owner panel PIN
type PinVerifier interface {
	VerifyPanelPin(ctx context.Context, kind services.PinKind, pin string) error
}

// PanelPin requires the panel PIN of kind in header. It must follow OwnerOnly.
func PanelPin(verifier PinVerifier, kind services.PinKind, header string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pin := c.Get(header)
		if pin == "" {
			return response.Unauthorized(c, header+" header required")
		}

		err := verifier.VerifyPanelPin(c.UserContext(), kind, pin)
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Unauthorized(c, "Incorrect PIN")
		default:
			return err
		}
	}
}

// CurrentUser builds the caller identity from the token claims
func CurrentUser(c *fiber.Ctx) *domain.User {
	id, _ := c.Locals("userID").(string)
	phone, _ := c.Locals("phone").(string)
	isAdmin, _ := c.Locals("isAdmin").(bool)
	return &domain.User{ID: id, PhoneNumber: phone, IsAdmin: isAdmin}
}
