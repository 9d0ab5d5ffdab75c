package services

import (
	"context"
	"strings"

	"github.com/oficina-digital/vistoria/internal/logx"
	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/repository"
	"github.com/oficina-digital/vistoria/internal/storage"
	"github.com/oficina-digital/vistoria/internal/utils"
	"github.com/oficina-digital/vistoria/internal/validate"
)

// OrderService - regras das ordens de serviço e da assinatura do cliente.
type OrderService struct {
	Orders    repository.OrderRepository
	Checklist repository.ChecklistRepository
	Photos    repository.PhotoRepository
	Store     storage.ObjectStore
	Logger    *logx.Logger
}

// NewOrderService cria um novo OrderService.
func NewOrderService(orders repository.OrderRepository, checklist repository.ChecklistRepository, photos repository.PhotoRepository, store storage.ObjectStore, logger *logx.Logger) *OrderService {
	return &OrderService{
		Orders:    orders,
		Checklist: checklist,
		Photos:    photos,
		Store:     store,
		Logger:    logger,
	}
}

func normalizeOrderRequest(req models.ServiceOrderRequest) (models.ServiceOrderRequest, error) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.VehiclePlate = strings.ToUpper(strings.TrimSpace(req.VehiclePlate))
	req.VehicleModel = strings.TrimSpace(req.VehicleModel)
	req.InsurerName = trimmedOrNil(req.InsurerName)
	if req.ClientName == "" || req.VehiclePlate == "" || req.VehicleModel == "" {
		return req, models.NewValidation("Nome do cliente, modelo e placa do veículo são obrigatórios.")
	}
	return req, nil
}

// CreateOrder cria uma OS na oficina do chamador. O superadmin precisa indicar a oficina.
func (s *OrderService) CreateOrder(ctx context.Context, caller models.Caller, req models.ServiceOrderRequest) (*models.ServiceOrder, error) {
	req, err := normalizeOrderRequest(req)
	if err != nil {
		return nil, err
	}

	if caller.IsSuperadmin() {
		if req.OficinaID == nil {
			return nil, models.NewValidation("Informe a oficina da ordem de serviço.")
		}
	} else {
		if caller.OficinaID == nil {
			return nil, models.NewForbidden(accessDenied)
		}
		req.OficinaID = caller.OficinaID
	}
	return s.Orders.CreateOrder(ctx, req)
}

// ListOrders devolve a página de ordens visíveis para o chamador.
func (s *OrderService) ListOrders(ctx context.Context, caller models.Caller, pageStr, limitStr, search string) (*models.OrderPage, error) {
	page, limit, err := utils.ParsePageLimit(pageStr, limitStr)
	if err != nil {
		return nil, models.NewValidation(err.Error())
	}

	filter := models.OrderFilter{
		Search: strings.TrimSpace(search),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if !caller.IsSuperadmin() {
		if caller.OficinaID == nil {
			return nil, models.NewForbidden(accessDenied)
		}
		filter.OficinaID = caller.OficinaID
	}

	orders, total, err := s.Orders.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.OrderPage{
		Data:        orders,
		TotalItems:  total,
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
	}, nil
}

// GetOrder devolve a OS com as respostas e fotos gravadas.
func (s *OrderService) GetOrder(ctx context.Context, caller models.Caller, idStr string) (*models.OrderDetail, error) {
	id, err := parseID(idStr, orderNotFound)
	if err != nil {
		return nil, err
	}
	order, err := loadOrder(ctx, s.Orders, caller, id)
	if err != nil {
		return nil, err
	}

	answers, err := s.Checklist.ListAnswers(ctx, id)
	if err != nil {
		return nil, err
	}
	photos, err := s.Photos.ListPhotos(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.OrderDetail{ServiceOrder: *order, Answers: answers, Photos: photos}, nil
}

// UpdateOrder altera cliente, veículo e seguradora. A oficina da OS não muda.
func (s *OrderService) UpdateOrder(ctx context.Context, caller models.Caller, idStr string, req models.ServiceOrderRequest) (*models.ServiceOrder, error) {
	id, err := parseID(idStr, orderNotFound)
	if err != nil {
		return nil, err
	}
	req, err = normalizeOrderRequest(req)
	if err != nil {
		return nil, err
	}
	if _, err := loadOrder(ctx, s.Orders, caller, id); err != nil {
		return nil, err
	}
	return s.Orders.UpdateOrder(ctx, id, req)
}

// DeleteOrder remove a OS e, em seguida, os objetos das suas fotos.
func (s *OrderService) DeleteOrder(ctx context.Context, caller models.Caller, idStr string) error {
	id, err := parseID(idStr, orderNotFound)
	if err != nil {
		return err
	}
	if _, err := loadOrder(ctx, s.Orders, caller, id); err != nil {
		return err
	}

	photos, err := s.Photos.ListPhotos(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Orders.DeleteOrder(ctx, id); err != nil {
		return err
	}

	for _, p := range photos {
		key, err := s.Store.KeyFromURL(p.Path)
		if err == nil {
			err = s.Store.Delete(ctx, key)
		}
		if err != nil && s.Logger != nil {
			s.Logger.Warnf("order %d: failed to remove photo object %s: %v", id, p.Path, err)
		}
	}
	return nil
}

// SaveSignature grava a assinatura do cliente, que deve ser uma data URL PNG ou JPEG.
func (s *OrderService) SaveSignature(ctx context.Context, caller models.Caller, idStr string, req models.SignatureRequest) error {
	id, err := parseID(idStr, orderNotFound)
	if err != nil {
		return err
	}
	if _, _, err := validate.SignatureDataURL(req.Signature); err != nil {
		return models.NewValidation(err.Error())
	}
	if _, err := loadOrder(ctx, s.Orders, caller, id); err != nil {
		return err
	}
	return s.Orders.SetSignature(ctx, id, strings.TrimSpace(req.Signature))
}
