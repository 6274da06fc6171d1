package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helper "edudbt_backend/internals/helpers"
)

/* ======== Extractors ======== */

// ExtractBearerToken reads "Authorization: Bearer <jwt>" or falls back to the access_token cookie.
func ExtractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("unauthorized - No token provided")
	}

	// tolerate repeated spaces and any casing of "Bearer"
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("unauthorized - Empty token")
	}
	return tok, nil
}

func parseClaims(tokenString, secret string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) error {
	expUnix, err := ExpiryUnix(claims)
	if err != nil {
		return err
	}
	expTime := time.Unix(expUnix, 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

// ExpiryUnix reads the exp claim whatever numeric shape the decoder produced.
func ExpiryUnix(claims jwt.MapClaims) (int64, error) {
	expVal, ok := claims["exp"]
	if !ok {
		return 0, fmt.Errorf("token has no exp")
	}
	switch t := expVal.(type) {
	case float64:
		return int64(t), nil
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid exp format")
		}
		return n, nil
	default:
		n, err := strconv.ParseInt(fmt.Sprintf("%v", t), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid exp type")
		}
		return n, nil
	}
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	idRaw, ok := claims["id"]
	if !ok {
		return uuid.Nil, fmt.Errorf("no user id")
	}
	v, ok := idRaw.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid user id type")
	}
	return uuid.Parse(strings.TrimSpace(v))
}

/* ======== Store identity to Locals ======== */

func storeIdentityToLocals(c *fiber.Ctx, id *identity) {
	c.Locals(helper.LocalUserID, id.UserID.String())
	c.Locals(helper.LocalUserRole, id.Role)
	if userName, ok := id.Claims["user_name"].(string); ok {
		c.Locals(helper.LocalUserName, userName)
	}
}
