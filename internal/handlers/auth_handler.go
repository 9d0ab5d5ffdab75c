package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/services"
	"github.com/oficina-digital/vistoria/internal/utils"
)

// AuthHandler atende login e troca de senha.
type AuthHandler struct {
	Service *services.AuthService
	Logger  *logx.Logger
	Timeout time.Duration
}

// NewAuthHandler cria um novo AuthHandler.
func NewAuthHandler(service *services.AuthService, logger *logx.Logger, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// Login autentica por e-mail e senha.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "E-mail e senha são obrigatórios.")
		return
	}

	resp, err := h.Service.Login(ctx, req)
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro interno do servidor.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// ChangePassword troca a senha do usuário autenticado.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "A senha antiga e a nova senha são obrigatórias.")
		return
	}

	if err := h.Service.ChangePassword(ctx, caller, req); err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro interno do servidor.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Senha alterada com sucesso!"})
}
