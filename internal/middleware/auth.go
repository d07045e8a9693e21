package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medifind/internal/dto"
	"medifind/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const userIDKey = "user_id"

// Auth accepts "Authorization: Bearer <jwt>" signed with secret (HS256). The
// token subject is the user id; it must name an existing user. On success the
// id is stored in the echo context, read it back with UserID.
func Auth(secret string, users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || raw == "" {
				return unauthorized(c)
			}

			userID, err := ParseToken(secret, raw)
			if err != nil {
				return unauthorized(c)
			}

			if _, err := users.FindByID(c.Request().Context(), userID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return unauthorized(c)
				}
				return err
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id, 0 outside Auth.
func UserID(c echo.Context) uint {
	id, _ := c.Get(userIDKey).(uint)
	return id
}

func IssueToken(secret string, userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	return token.SignedString([]byte(secret))
}

func ParseToken(secret, raw string) (uint, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("token subject is not a user id")
	}

	return uint(id), nil
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Unauthorized"})
}
