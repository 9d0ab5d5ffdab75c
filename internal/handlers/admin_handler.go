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

// AdminHandler atende as rotas do superadmin: oficinas e usuários.
type AdminHandler struct {
	Service *services.AdminService
	Logger  *logx.Logger
	Timeout time.Duration
}

// NewAdminHandler cria um novo AdminHandler.
func NewAdminHandler(service *services.AdminService, logger *logx.Logger, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// ListOficinas lista as oficinas por nome.
func (h *AdminHandler) ListOficinas(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	oficinas, err := h.Service.ListOficinas(ctx)
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao buscar oficinas.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, oficinas)
}

// CreateOficina cadastra uma oficina; nome_fantasia é obrigatório.
func (h *AdminHandler) CreateOficina(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.OficinaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	oficina, err := h.Service.CreateOficina(ctx, req)
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao criar oficina.")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, oficina)
}

// UpdateOficina altera os dados de uma oficina.
func (h *AdminHandler) UpdateOficina(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.OficinaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	oficina, err := h.Service.UpdateOficina(ctx, r.PathValue("id"), req)
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao atualizar oficina.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, oficina)
}

// DeleteOficina remove uma oficina sem vínculos.
func (h *AdminHandler) DeleteOficina(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.DeleteOficina(ctx, r.PathValue("id")); err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao deletar oficina.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Oficina deletada com sucesso."})
}

// ListUsers lista os usuários com o nome da oficina.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	users, err := h.Service.ListUsers(ctx)
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao buscar usuários.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

// CreateUser cadastra um usuário vinculado a uma oficina.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	user, err := h.Service.CreateUser(ctx, req)
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao criar usuário.")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, models.UserResponse{Message: "Usuário criado com sucesso!", User: *user})
}

// UpdateUser altera um usuário; senha vazia mantém a atual.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	user, err := h.Service.UpdateUser(ctx, r.PathValue("id"), req)
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao atualizar usuário.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

// DeleteUser remove um usuário que não seja o próprio chamador.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.DeleteUser(ctx, caller, r.PathValue("id")); err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao deletar usuário.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Usuário deletado com sucesso."})
}
