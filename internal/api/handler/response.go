// Package handler contains the gin HTTP handlers. Success bodies follow each
// endpoint's documented shape; failures are always {"error": message}, and the
// same message is recorded for the request's audit entry.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/quantabi/investment/internal/api/middleware"
	"github.com/quantabi/investment/internal/domain"
)

// respondError writes {"error": msg} with the given status and records msg as
// this request's audit failure reason.
func respondError(c *gin.Context, status int, msg string) {
	middleware.SetAuditError(c, msg)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// respondDomainError translates a domain error into its HTTP status using the
// shared predicates: validation → 400, not found → 404, auth → 401, anything
// else → 500 with the given generic message (the cause stays in the server
// log, never the response).
func respondDomainError(c *gin.Context, err error, internalMsg string) {
	switch {
	case domain.IsValidation(err):
		respondError(c, 400, err.Error())
	case domain.IsNotFound(err):
		respondError(c, 404, err.Error())
	case domain.IsAuthError(err):
		respondError(c, 401, err.Error())
	default:
		respondError(c, 500, internalMsg)
	}
}
