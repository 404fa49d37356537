package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quantabi/investment/internal/domain"
	"github.com/quantabi/investment/internal/service"
)

// AuthHandler serves the signup / login / password-reset endpoints.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Signup godoc
// POST /api/auth/signup
// Body: {"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","password":"..."}
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid signup payload")
		return
	}

	resp, err := h.authSvc.Signup(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			respondError(c, http.StatusConflict, domain.ErrEmailTaken.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          "User created successfully",
		"token":            resp.Token,
		"passwordFeedback": resp.PasswordFeedback,
	})
}

// Login godoc
// POST /api/auth/login
// Body: {"email":"ada@example.com","password":"..."}
func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "invalid login payload")
		return
	}

	token, err := h.authSvc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// PasswordReset godoc
// POST /api/auth/password-reset
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	respondError(c, http.StatusNotImplemented, "password reset not implemented yet")
}
