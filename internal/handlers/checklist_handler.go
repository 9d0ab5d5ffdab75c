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

// ChecklistHandler atende as rotas de itens e respostas do checklist.
type ChecklistHandler struct {
	Service *services.ChecklistService
	Logger  *logx.Logger
	Timeout time.Duration
}

// NewChecklistHandler cria um novo ChecklistHandler.
func NewChecklistHandler(service *services.ChecklistService, logger *logx.Logger, timeout time.Duration) *ChecklistHandler {
	return &ChecklistHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// ListItems devolve os itens do checklist.
func (h *ChecklistHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	items, err := h.Service.ListItems(ctx)
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro interno do servidor.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

// SaveAnswers grava o conjunto de respostas de uma OS.
func (h *ChecklistHandler) SaveAnswers(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.AnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, `Formato de dados inválido. É necessário "os_id" e um array de "respostas".`)
		return
	}

	if err := h.Service.SaveAnswers(ctx, caller, req); err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro interno do servidor ao salvar respostas.")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, models.MessageResponse{Message: "Respostas do checklist salvas com sucesso!"})
}
