package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Handler authenticates the single env-configured admin account and issues
// bearer tokens for the mutating endpoints.
type Handler struct {
	Tokens TokenService

	Username     string
	Password     string // dev fallback, used only when PasswordHash is empty
	PasswordHash string // bcrypt
}

func NewHandler(tokens TokenService, username, password, passwordHash string) *Handler {
	return &Handler{
		Tokens:       tokens,
		Username:     username,
		Password:     password,
		PasswordHash: passwordHash,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if !h.credentialsOK(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, exp, err := h.Tokens.Sign(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": exp})
}

func (h *Handler) credentialsOK(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(h.Username)) != 1 {
		return false
	}
	if h.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.PasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(h.Password)) == 1
}
