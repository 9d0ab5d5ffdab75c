package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/utils"
)

// Pinger é uma dependência verificada pelo health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingHandler responde ao health check em /api/ping.
type PingHandler struct {
	Checks  map[string]Pinger
	Logger  *logx.Logger
	Timeout time.Duration
}

// NewPingHandler cria um PingHandler que verifica as dependências informadas.
func NewPingHandler(checks map[string]Pinger, logger *logx.Logger, timeout time.Duration) *PingHandler {
	return &PingHandler{
		Checks:  checks,
		Logger:  logger,
		Timeout: timeout,
	}
}

// Ping devolve "ok" quando todas as dependências respondem e 503 caso contrário.
func (h *PingHandler) Ping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.Checks[name].Ping(ctx); err != nil {
			if h.Logger != nil {
				h.Logger.Errorf("health check %s: %v", name, err)
			}
			utils.SendErrorResponse(w, http.StatusServiceUnavailable, fmt.Sprintf("%s indisponível", name))
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, "ok"); err != nil && h.Logger != nil {
		h.Logger.Warnf("ping: %v", err)
	}
}
