package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quantabi/investment/internal/api/middleware"
	"github.com/quantabi/investment/internal/domain"
	"github.com/quantabi/investment/internal/service"
	"github.com/shopspring/decimal"
)

// InvestmentHandler serves the ledger endpoints: placing an investment and
// reading the aggregated portfolio.
type InvestmentHandler struct {
	investSvc *service.InvestmentService
}

// NewInvestmentHandler creates an InvestmentHandler.
func NewInvestmentHandler(investSvc *service.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{investSvc: investSvc}
}

// Invest godoc
// POST /api/investments [auth]
// Body: {"product_id": 3, "amount": 2500}
func (h *InvestmentHandler) Invest(c *gin.Context) {
	userID := middleware.GetUserID(c)

	// Amount validity (positive, in range) is the service's call; a bind
	// failure here only means the payload itself was unusable.
	var body struct {
		ProductID int64           `json:"product_id" binding:"required"`
		Amount    decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "invalid investment payload")
		return
	}

	inv, err := h.investSvc.Invest(c.Request.Context(), domain.InvestRequest{
		UserID:    userID,
		ProductID: body.ProductID,
		Amount:    body.Amount,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientFunds),
			errors.Is(err, domain.ErrAmountOutOfRange),
			errors.Is(err, domain.ErrInvalidAmount):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrProductNotFound):
			respondError(c, http.StatusNotFound, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, domain.ErrPersistence.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Investment successful",
		"investmentId": inv.ID,
	})
}

// Portfolio godoc
// GET /api/investments/portfolio [auth]
func (h *InvestmentHandler) Portfolio(c *gin.Context) {
	userID := middleware.GetUserID(c)

	view, err := h.investSvc.Portfolio(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to fetch portfolio")
		return
	}

	portfolio := view.Portfolio
	if portfolio == nil {
		portfolio = []*domain.PortfolioEntry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"portfolio": portfolio,
		"insights":  view.Insights,
	})
}
