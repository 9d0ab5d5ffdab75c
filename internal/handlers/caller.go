package handlers

import (
	"net/http"

	"github.com/oficina-digital/vistoria/internal/middleware"
	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/utils"
)

// requireCaller lê o chamador posto no contexto pelo middleware de autenticação.
func requireCaller(w http.ResponseWriter, r *http.Request) (models.Caller, bool) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		utils.SendErrorResponse(w, http.StatusUnauthorized, "Token de acesso não fornecido.")
		return models.Caller{}, false
	}
	return caller, true
}
