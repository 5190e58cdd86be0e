package auth

import (
	"net/http"
	"time"

	"github.com/hemant18-09/pharmacy/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	jwtManager *JWTManager
	logger     *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtManager *JWTManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"pharmacist"`
	Password string `json:"password" binding:"required" example:"pharmacist123"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Type      string    `json:"type" example:"Bearer"`
	Role      string    `json:"role" example:"pharmacist"`
	ExpiresIn int       `json:"expires_in" example:"600"` // 10 minutes in seconds
	ExpiresAt time.Time `json:"expires_at" example:"2025-01-15T12:00:00Z"`
}

// Simple user table for the prototype. In production this should
// validate against a user database.
var prototypeUsers = map[string]struct {
	password string
	role     string
}{
	"pharmacist": {"pharmacist123", "pharmacist"},
	"assistant":  {"assistant123", "assistant"},
	"admin":      {"admin123", "admin"},
}

// Login handles POST /auth/login
// @Summary      Login and get JWT token
// @Description  Authenticates a user and returns a JWT token valid for 10 minutes. Available users: pharmacist/pharmacist123, assistant/assistant123, admin/admin123
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Login credentials"
// @Success      200      {object}  LoginResponse  "Token generated"
// @Failure      400      {object}  errors.StandardError  "Missing credentials"
// @Failure      401      {object}  errors.StandardError  "Invalid credentials"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, errors.NewValidationError("invalid request", "username or password"))
		return
	}

	user, ok := prototypeUsers[req.Username]
	if !ok || user.password != req.Password {
		h.logger.Warn("Invalid credentials",
			zap.String("username", req.Username),
		)
		c.JSON(http.StatusUnauthorized, errors.NewStandardError("Unauthorized", "invalid credentials", "username or password incorrect"))
		return
	}

	token, err := h.jwtManager.GenerateToken(req.Username, user.role)
	if err != nil {
		h.logger.Error("Failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errors.NewInternalError("failed to generate token", err))
		return
	}

	expiresAt := time.Now().Add(10 * time.Minute)
	response := LoginResponse{
		Token:     token,
		Type:      "Bearer",
		Role:      user.role,
		ExpiresIn: 600,
		ExpiresAt: expiresAt,
	}

	h.logger.Info("User logged in successfully",
		zap.String("username", req.Username),
		zap.String("role", user.role),
		zap.Time("expires_at", expiresAt),
	)

	c.JSON(http.StatusOK, response)
}
