package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quantabi/investment/internal/domain"
	"github.com/quantabi/investment/internal/service"
)

// ContextKey constants for gin.Context values set by middleware.
const (
	CtxUserID     = "userID"
	CtxEmail      = "userEmail"
	CtxAuditError = "auditError"
)

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

// AuthMiddleware validates the Bearer token in the Authorization header.
// On success it stores the caller identity (user id + email) in the gin
// context; the audit middleware picks it up from there even when a later
// handler fails.
func AuthMiddleware(authSvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			SetAuditError(c, domain.ErrUnauthorized.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": domain.ErrUnauthorized.Error(),
			})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := authSvc.ParseToken(tokenString)
		if err != nil {
			SetAuditError(c, domain.ErrTokenInvalid.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": domain.ErrTokenInvalid.Error(),
			})
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			SetAuditError(c, domain.ErrTokenInvalid.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": domain.ErrTokenInvalid.Error(),
			})
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxEmail, claims.Email)
		c.Next()
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Context helpers
// ──────────────────────────────────────────────────────────────────────────────

// GetIdentity retrieves the authenticated caller from the gin context.
// Returns (identity, true) when the auth middleware resolved one, (zero,
// false) for anonymous requests.
func GetIdentity(c *gin.Context) (domain.Identity, bool) {
	v, exists := c.Get(CtxUserID)
	if !exists {
		return domain.Identity{}, false
	}
	id, ok := v.(int64)
	if !ok {
		return domain.Identity{}, false
	}
	email, _ := c.Get(CtxEmail)
	emailStr, _ := email.(string)
	return domain.Identity{UserID: id, Email: emailStr}, true
}

// GetUserID retrieves the authenticated user's id, or 0 when anonymous.
func GetUserID(c *gin.Context) int64 {
	ident, ok := GetIdentity(c)
	if !ok {
		return 0
	}
	return ident.UserID
}

// SetAuditError records the short, human-readable failure reason the audit
// middleware will persist with this request's entry.
func SetAuditError(c *gin.Context, msg string) {
	c.Set(CtxAuditError, msg)
}
