package serverutils

import (
	"os"

	"second-brain-be/internal/repository/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// NewJwtMiddleware checks the Bearer token and rejects tokens that were
// blacklisted by logout. user_id and jti land in ctx.Locals for handlers.
func NewJwtMiddleware(revoked *memory.TokenRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
		}

		if jti, ok := claims["jti"].(string); ok {
			if revoked != nil && revoked.IsRevoked(jti) {
				return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Token revoked"))
			}
			ctx.Locals("token_id", jti)
		}

		if exp, ok := claims["exp"].(float64); ok {
			ctx.Locals("token_exp", int64(exp))
		}

		ctx.Locals("user_id", claims["user_id"])
		return ctx.Next()
	}
}
