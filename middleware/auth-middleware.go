package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/krishkalaria12/imageworld/apperr"
	"github.com/krishkalaria12/imageworld/auth"
)

const identityKey = "identity"

type TokenVerifier interface {
	Verify(credential string) (*auth.Identity, error)
}

// AuthMiddleware rejects requests without a valid bearer credential and
// stores the verified identity for the handlers behind it.
func AuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		var tokenStr string

		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			tokenStr = strings.TrimSpace(authHeader[7:])
		}

		if tokenStr == "" {
			return apperr.Unauthorized("Access token required")
		}

		identity, err := verifier.Verify(tokenStr)
		if err != nil {
			return err
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthMiddleware.
func CurrentIdentity(c *fiber.Ctx) (*auth.Identity, error) {
	identity, ok := c.Locals(identityKey).(*auth.Identity)
	if !ok || identity == nil {
		return nil, apperr.Unauthorized("Access token required")
	}
	return identity, nil
}
