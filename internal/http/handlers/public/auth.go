package public

import (
	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/http/response"
	"github.com/solmercado/tienda-api/internal/service"
)

// Register creates a customer account.
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}
	person, err := h.AuthService.Register(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, person)
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"correo" binding:"required"`
	Password string `json:"contrasena" binding:"required"`
}

// Login answers a signed token plus the account it belongs to.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}
	person, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"persona":    person,
	})
}
