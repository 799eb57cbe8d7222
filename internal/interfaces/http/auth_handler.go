package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/motamarcelo/watcher-bazico/internal/application/auth"
	"github.com/motamarcelo/watcher-bazico/internal/application/dto"
)

// AuthHandler maneja o fluxo OAuth2 com o Bling e o status de autenticação.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler constrói o handler.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Begin godoc
// @Summary      Redirecionar para a página de autorização do Bling
// @Tags         auth
// @Success      307
// @Router       /bling/auth [get]
func (h *AuthHandler) Begin(c *fiber.Ctx) error {
	return c.Redirect(h.uc.BeginURL("watcher"), fiber.StatusTemporaryRedirect)
}

// Callback godoc
// @Summary      Receber o code do OAuth2 e trocar por tokens
// @Tags         auth
// @Produce      json
// @Param        code  query  string  true  "authorization code"
// @Success      200  {object}  dto.CallbackResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /bling/callback [get]
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_CODE", Message: "code é obrigatório"})
	}
	expiresIn, err := h.uc.Complete(c.Context(), code)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "AUTH_FAILED", Message: err.Error()})
	}
	return c.JSON(dto.CallbackResponse{Message: "Autenticação concluída", ExpiresIn: expiresIn})
}

// Status godoc
// @Summary      Health check e status dos tokens
// @Tags         sync
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /sync/status [get]
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	autenticado, err := h.uc.Authenticated(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.StatusResponse{Status: "ok", BlingAutenticado: autenticado})
}
