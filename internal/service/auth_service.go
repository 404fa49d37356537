package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/quantabi/investment/internal/config"
	"github.com/quantabi/investment/internal/domain"
	"github.com/quantabi/investment/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Request / Response types
// ──────────────────────────────────────────────────────────────────────────────

// SignupRequest contains the fields required to create a new user account.
type SignupRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name"  binding:"required,max=100"`
	Email     string `json:"email"      binding:"required,email"`
	Password  string `json:"password"   binding:"required,min=8"`
}

// SignupResponse is returned on successful signup.
type SignupResponse struct {
	Token            string
	PasswordFeedback string
}

// AppClaims extends jwt.RegisteredClaims with the caller's email, so the
// middleware can resolve the full identity without a second lookup.
type AppClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthService
// ──────────────────────────────────────────────────────────────────────────────

// AuthService handles user signup, login, and JWT token operations. Signup
// seeds the new user's funds account with the configured opening balance in
// the same transaction that creates the user row.
type AuthService struct {
	db          *sqlx.DB
	userRepo    *repository.UserRepository
	accountRepo *repository.AccountRepository
	cfg         *config.Config
}

// NewAuthService creates an AuthService.
func NewAuthService(
	db *sqlx.DB,
	userRepo *repository.UserRepository,
	accountRepo *repository.AccountRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		db:          db,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		cfg:         cfg,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Signup
// ──────────────────────────────────────────────────────────────────────────────

// Signup creates a new user and their funds account, seeded with the
// configured opening balance, in one atomic transaction, and returns a signed
// token for the fresh identity.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth_service.Signup: hash: %w", err)
	}

	user := &domain.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		RiskAppetite: domain.RiskModerate,
		CreatedAt:    time.Now().UTC(),
	}
	opening := decimal.NewFromFloat(s.cfg.Ledger.OpeningBalance)

	tx, txErr := s.db.BeginTxx(ctx, nil)
	if txErr != nil {
		return nil, fmt.Errorf("auth_service.Signup: begin tx: %w", txErr)
	}
	defer func() {
		if txErr != nil {
			_ = tx.Rollback()
		}
	}()

	if txErr = s.userRepo.CreateTx(ctx, tx, user); txErr != nil {
		if errors.Is(txErr, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("auth_service.Signup: create user: %w", txErr)
	}

	if txErr = s.accountRepo.CreateTx(ctx, tx, user.ID, opening); txErr != nil {
		return nil, fmt.Errorf("auth_service.Signup: create account: %w", txErr)
	}

	if txErr = tx.Commit(); txErr != nil {
		return nil, fmt.Errorf("auth_service.Signup: commit: %w", txErr)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("auth_service.Signup: token: %w", err)
	}

	return &SignupResponse{
		Token:            token,
		PasswordFeedback: fmt.Sprintf("Your password is considered %s", passwordStrength(req.Password)),
	}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

// Login verifies the credentials and returns a signed token. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth_service.Login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", fmt.Errorf("auth_service.Login: token: %w", err)
	}
	return token, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tokens
// ──────────────────────────────────────────────────────────────────────────────

// GenerateToken signs an HS256 token carrying the user's id and email.
func (s *AuthService) GenerateToken(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := AppClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.TTL)),
		},
		Email: user.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", fmt.Errorf("auth_service.GenerateToken: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token string and returns its claims. Any parse,
// signature or expiry failure maps to domain.ErrTokenInvalid.
func (s *AuthService) ParseToken(tokenString string) (*AppClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AppClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	claims, ok := token.Claims.(*AppClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// passwordStrength is a coarse heuristic used only for signup feedback; it has
// no bearing on whether the password is accepted.
func passwordStrength(password string) string {
	if len(password) < 12 {
		return "weak"
	}
	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if hasUpper && hasDigit {
		return "strong"
	}
	return "weak"
}
