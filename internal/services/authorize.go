package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/repository"
)

const (
	orderNotFound   = "Ordem de serviço não encontrada."
	photoNotFound   = "Foto não encontrada."
	userNotFound    = "Usuário não encontrado."
	oficinaNotFound = "Oficina não encontrada."
	accessDenied    = "Acesso proibido."
)

// parseID converte o id recebido na rota. Ids malformados contam como inexistentes.
func parseID(raw, notFound string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewNotFound(notFound)
	}
	return id, nil
}

// authorizeTenant aplica o isolamento por oficina a qualquer leitura ou escrita de uma OS.
func authorizeTenant(caller models.Caller, tenantID *int64) error {
	if !caller.CanAccessTenant(tenantID) {
		return models.NewForbidden(accessDenied)
	}
	return nil
}

// loadOrder busca a OS e confere se o chamador pode acessá-la.
func loadOrder(ctx context.Context, repo repository.OrderRepository, caller models.Caller, id int64) (*models.ServiceOrder, error) {
	order, err := repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeTenant(caller, order.OficinaID); err != nil {
		return nil, err
	}
	return order, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
