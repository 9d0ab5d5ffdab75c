package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/services"
	"github.com/oficina-digital/vistoria/internal/utils"
)

// ReportHandler entrega o PDF da vistoria.
type ReportHandler struct {
	Service *services.ReportService
	Logger  *logx.Logger
	Timeout time.Duration
}

// NewReportHandler cria um novo ReportHandler.
func NewReportHandler(service *services.ReportService, logger *logx.Logger, timeout time.Duration) *ReportHandler {
	return &ReportHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GeneratePDF gera o relatório inteiro antes de escrever qualquer byte da resposta.
func (h *ReportHandler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rep, err := h.Service.Generate(ctx, caller, r.PathValue("id"))
	if err != nil {
		utils.SendServiceError(w, h.Logger, err, "Erro ao gerar o PDF.")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", rep.ContentDisposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rep.Data); err != nil && h.Logger != nil {
		h.Logger.Warnf("failed to send %s: %v", rep.Filename, err)
	}
}
