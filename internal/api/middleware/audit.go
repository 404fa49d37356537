package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quantabi/investment/internal/audit"
	"github.com/quantabi/investment/internal/domain"
)

// AuditMiddleware captures the terminal outcome of every request — method,
// path, final status, resolved caller identity and the handler-set failure
// reason — and hands it to the async recorder once the response is finalised.
//
// Registered ahead of the recovery and auth middleware so the capture covers
// every request the router sees, authenticated or not, panics included. The
// enqueue is non-blocking: audit
// pressure never delays or fails the request that produced the entry.
func AuditMiddleware(rec *audit.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		entry := &domain.AuditEntry{
			Endpoint:   c.Request.URL.Path, // path only, query string excluded
			HTTPMethod: c.Request.Method,
			StatusCode: c.Writer.Status(),
			CreatedAt:  time.Now().UTC(),
		}

		if ident, ok := GetIdentity(c); ok {
			entry.UserID = &ident.UserID
			if ident.Email != "" {
				entry.Email = &ident.Email
			}
		}

		if v, exists := c.Get(CtxAuditError); exists {
			if msg, ok := v.(string); ok && msg != "" {
				entry.ErrorMessage = &msg
			}
		}

		rec.Record(entry)
	}
}
