package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
	adminRole     = "admin"
	tokenIssuer   = "vyaparsetu"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrNotAdmin     = errors.New("token does not carry the admin role")
)

// AdminClaims are the claims of an admin bearer token. The subject is the admin id.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type adminCtxKey struct{}

// AdminIDFromContext returns the admin id set by AdminAuth, if any.
func AdminIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(adminCtxKey{}).(string)
	return id, ok && id != ""
}

// SignAdminToken issues an HS256 admin token valid for ttl.
func SignAdminToken(secret, adminID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("admin secret is empty")
	}
	now := time.Now()
	claims := AdminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}
	return signed, nil
}

func parseAdminToken(secret, tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role != adminRole {
		return nil, ErrNotAdmin
	}
	return claims, nil
}

// AdminAuth guards the admin routes with an HS256 bearer token. An empty
// secret disables the check.
func AdminAuth(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get(authHeaderKey)
			if authHeader == "" {
				handleAuthError(w, r, logger, ErrInvalidToken, "Missing authorization header")
				return
			}
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				handleAuthError(w, r, logger, ErrInvalidToken, "Invalid authorization header format")
				return
			}
			tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
			if tokenString == "" {
				handleAuthError(w, r, logger, ErrInvalidToken, "Missing token")
				return
			}

			claims, err := parseAdminToken(secret, tokenString)
			if err != nil {
				handleAuthError(w, r, logger, err, "Token validation failed")
				return
			}
			ctx := context.WithValue(r.Context(), adminCtxKey{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func handleAuthError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, message string) {
	logger.Warn("admin authentication failed",
		zap.String("path", r.URL.Path),
		zap.String("reason", message),
		zap.Error(err))

	code := http.StatusUnauthorized
	if errors.Is(err, ErrNotAdmin) {
		code = http.StatusForbidden
	}
	respondWithError(w, code, message+": "+err.Error())
}
