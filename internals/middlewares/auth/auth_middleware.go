// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const expirySkew = 30 * time.Second

// identity is an authenticated caller. Role comes from the users row, not the token.
type identity struct {
	UserID uuid.UUID
	Role   string
	Claims jwt.MapClaims
}

// authenticate runs every token check and returns the status to answer with on failure.
func authenticate(c *fiber.Ctx, store TokenStore, secret, tokenString string) (*identity, *fiber.Error) {
	ctx := c.UserContext()

	// 1) blacklist (sekali per request)
	if c.Locals("token_checked") == nil {
		black, err := store.IsBlacklisted(ctx, tokenString)
		if err != nil {
			log.Println("[ERROR] DB error while checking blacklist:", err)
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}
		if black {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
		}
		c.Locals("token_checked", true)
	}

	// 2) signature
	if secret == "" {
		log.Println("[ERROR] JWT_SECRET is empty")
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
	}
	claims, err := parseClaims(tokenString, secret)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
	}

	// 3) exp
	if err := validateTokenExpiry(claims, expirySkew); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
	}

	// 4) user_id + user aktif
	userID, err := extractUserID(claims)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing user ID")
	}
	st, err := store.FindUserStatus(ctx, userID)
	switch {
	case errors.Is(err, ErrUserNotFound):
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - User not found")
	case err != nil:
		log.Println("[ERROR] ensureUserActive:", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	case !st.IsActive:
		return nil, fiber.NewError(fiber.StatusForbidden, "Your account has been deactivated")
	}
	return &identity{UserID: userID, Role: st.Role, Claims: claims}, nil
}

// AuthMiddleware rejects requests without a valid, non-revoked token of an active user.
func AuthMiddleware(store TokenStore, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := ExtractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		id, ferr := authenticate(c, store, secret, tokenString)
		if ferr != nil {
			log.Printf("[AUTH] %s %s rejected: %s", c.Method(), c.OriginalURL(), ferr.Message)
			return ferr
		}

		storeIdentityToLocals(c, id)
		return c.Next()
	}
}

// OptionalAuth fills the user locals when a valid token is present and
// otherwise continues as an anonymous visitor.
func OptionalAuth(store TokenStore, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := ExtractBearerToken(c)
		if err != nil {
			return c.Next()
		}
		id, ferr := authenticate(c, store, secret, tokenString)
		if ferr != nil {
			log.Printf("[INFO] OptionalAuth: %s, continuing as anonymous", ferr.Message)
			return c.Next()
		}
		storeIdentityToLocals(c, id)
		return c.Next()
	}
}
