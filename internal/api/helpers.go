package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notedapp/noted-server/internal/auth"
)

// authenticateRequest validates the Authorization header and returns the
// numeric user ID from the token subject.
func authenticateRequest(tokens *auth.TokenService, authHeader string) (int64, error) {
	if authHeader == "" {
		return 0, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := tokens.VerifyAccessToken(parts[1])
	if err != nil {
		return 0, huma.Error401Unauthorized("Invalid or expired token")
	}

	return claims.UserID, nil
}
