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

// OrderHandler atende as rotas de ordens de serviço.
type OrderHandler struct {
	Service *services.OrderService
	Logger  *logx.Logger
	Timeout time.Duration
}

// NewOrderHandler cria um novo OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *logx.Logger, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateOrder cria uma OS.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.ServiceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	order, err := h.Service.CreateOrder(ctx, caller, req)
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao criar ordem de serviço.")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, order)
}

// ListOrders lista as ordens com paginação e busca.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()
	page, err := h.Service.ListOrders(ctx, caller, query.Get("page"), query.Get("limit"), query.Get("search"))
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao buscar ordens de serviço.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// GetOrder devolve a OS com respostas e fotos.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	detail, err := h.Service.GetOrder(ctx, caller, r.PathValue("id"))
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao buscar ordem de serviço.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, detail)
}

// UpdateOrder altera os dados de uma OS.
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.ServiceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	order, err := h.Service.UpdateOrder(ctx, caller, r.PathValue("id"), req)
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao atualizar ordem de serviço.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// DeleteOrder remove uma OS.
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.DeleteOrder(ctx, caller, r.PathValue("id")); err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao deletar ordem de serviço.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Ordem de serviço deletada com sucesso."})
}

// SaveSignature grava a assinatura do cliente.
func (h *OrderHandler) SaveSignature(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.SignatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	if err := h.Service.SaveSignature(ctx, caller, r.PathValue("id"), req); err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao salvar assinatura.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Assinatura salva com sucesso."})
}
