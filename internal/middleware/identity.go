package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spakle/amarquiz-backend/internal/model"
	"github.com/spakle/amarquiz-backend/internal/response"
	"github.com/spakle/amarquiz-backend/internal/service"
)

// ContextKeyClaims is the Gin context key for identity claims.
const ContextKeyClaims = "claims"

// OptionalIdentity parses an identity token when present. Requests without a
// token proceed as the anonymous identity — the program has no accounts, so
// nothing is ever rejected for missing identification.
func OptionalIdentity(identityService *service.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := identityService.ValidateToken(tokenStr)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the identity claims from the Gin context, or nil when
// the request carried no token.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetIdentity resolves the request's identity, falling back to anonymous.
func GetIdentity(c *gin.Context) model.Identity {
	if claims := GetClaims(c); claims != nil {
		return claims.Identity()
	}
	return model.Identity{}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	// Fallback for WebSocket upgrades, which cannot send headers from browsers.
	return c.Query("token")
}
