package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quantabi/investment/internal/domain"
	"github.com/quantabi/investment/internal/service"
)

// ProductHandler serves the catalog surface: public listing plus the
// authenticated create / update / delete operations.
type ProductHandler struct {
	productSvc *service.ProductService
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(productSvc *service.ProductService) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

// List godoc
// GET /api/products?type=bond&risk_level=low
func (h *ProductHandler) List(c *gin.Context) {
	invType := domain.InvestmentType(c.Query("type"))
	risk := domain.RiskLevel(c.Query("risk_level"))

	products, err := h.productSvc.List(c.Request.Context(), invType, risk)
	if err != nil {
		respondDomainError(c, err, "failed to fetch products")
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Get godoc
// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := h.productSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Create godoc
// POST /api/products [auth]
func (h *ProductHandler) Create(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, domain.ErrInvalidProduct.Error())
		return
	}

	id, err := h.productSvc.Create(c.Request.Context(), &p)
	if err != nil {
		respondDomainError(c, err, "failed to create product")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Product created successfully",
		"productId": id,
	})
}

// Update godoc
// PUT /api/products/:id [auth]
//
// Accepts a typed partial update: only the mutable catalog fields are
// recognised, and unknown keys are rejected outright rather than echoed into
// a persistence statement.
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var upd domain.ProductUpdate
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&upd); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			respondError(c, http.StatusBadRequest, domain.ErrUnknownUpdateField.Error())
			return
		}
		respondError(c, http.StatusBadRequest, domain.ErrInvalidProduct.Error())
		return
	}

	if err := h.productSvc.Update(c.Request.Context(), id, &upd); err != nil {
		respondDomainError(c, err, "failed to update product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

// Delete godoc
// DELETE /api/products/:id [auth]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.productSvc.Delete(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// Recommended godoc
// GET /api/products/recommended?risk_level=moderate&limit=5
//
// Risk level falls back to moderate when absent or unrecognised.
func (h *ProductHandler) Recommended(c *gin.Context) {
	risk := domain.RiskLevel(c.Query("risk_level"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	products, err := h.productSvc.Recommended(c.Request.Context(), risk, limit)
	if err != nil {
		respondDomainError(c, err, "failed to fetch recommendations")
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// parseID reads the numeric :id route parameter.
func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
