package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quantabi/investment/internal/domain"
	"github.com/quantabi/investment/internal/repository"
)

// defaultLogLimit bounds the audit log listing.
const defaultLogLimit = 100

// TransactionHandler serves the audit log listing endpoint.
type TransactionHandler struct {
	auditRepo *repository.AuditRepository
}

// NewTransactionHandler creates a TransactionHandler.
func NewTransactionHandler(auditRepo *repository.AuditRepository) *TransactionHandler {
	return &TransactionHandler{auditRepo: auditRepo}
}

// List godoc
// GET /api/transactions?user_id=&email= [auth]
//
// Returns audit entries newest first, optionally filtered by user id and/or
// email, plus a grouped summary of that caller's recent request failures.
func (h *TransactionHandler) List(c *gin.Context) {
	var userID int64
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid user_id filter")
			return
		}
		userID = parsed
	}
	email := c.Query("email")

	logs, err := h.auditRepo.List(c.Request.Context(), userID, email, defaultLogLimit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch logs")
		return
	}
	if logs == nil {
		logs = []*domain.AuditEntry{}
	}

	summary, err := h.auditRepo.ErrorSummary(c.Request.Context(), userID, email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch logs")
		return
	}

	resp := gin.H{"logs": logs}
	if len(summary) == 0 {
		resp["errorSummary"] = "No errors found for this user."
	} else {
		resp["errorSummary"] = summary
	}
	c.JSON(http.StatusOK, resp)
}
