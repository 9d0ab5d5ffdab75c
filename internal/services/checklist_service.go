package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/repository"
)

// ChecklistService lista os itens do checklist e grava as respostas de uma OS.
type ChecklistService struct {
	Orders    repository.OrderRepository
	Checklist repository.ChecklistRepository
}

// NewChecklistService cria um novo ChecklistService.
func NewChecklistService(orders repository.OrderRepository, checklist repository.ChecklistRepository) *ChecklistService {
	return &ChecklistService{Orders: orders, Checklist: checklist}
}

// ListItems devolve os itens do checklist na ordem de exibição.
func (s *ChecklistService) ListItems(ctx context.Context) ([]models.ChecklistItem, error) {
	return s.Checklist.ListItems(ctx)
}

// SaveAnswers substitui todas as respostas da OS pelo conjunto enviado.
// Um conjunto vazio limpa as respostas.
func (s *ChecklistService) SaveAnswers(ctx context.Context, caller models.Caller, req models.AnswersRequest) error {
	if req.OrderID <= 0 || req.Answers == nil {
		return models.NewValidation(`Formato de dados inválido. É necessário "os_id" e um array de "respostas".`)
	}
	if _, err := loadOrder(ctx, s.Orders, caller, req.OrderID); err != nil {
		return err
	}

	ids := make([]int64, 0, len(req.Answers))
	seen := make(map[int64]bool, len(req.Answers))
	for _, a := range req.Answers {
		if seen[a.ItemID] {
			return models.NewValidation(fmt.Sprintf("Item %d repetido nas respostas.", a.ItemID))
		}
		seen[a.ItemID] = true
		ids = append(ids, a.ItemID)
	}

	items, err := s.Checklist.ItemsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[int64]models.ChecklistItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	answers := make([]models.ChecklistAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		item, ok := byID[a.ItemID]
		if !ok {
			return models.NewValidation(fmt.Sprintf("Item de checklist inexistente: %d.", a.ItemID))
		}
		answer, err := normalizeAnswer(item, a)
		if err != nil {
			return err
		}
		answer.OrderID = req.OrderID
		answers = append(answers, answer)
	}

	return s.Checklist.ReplaceAnswers(ctx, req.OrderID, answers)
}

// normalizeAnswer confere a resposta contra o tipo do item.
func normalizeAnswer(item models.ChecklistItem, a models.ChecklistAnswer) (models.ChecklistAnswer, error) {
	a.Status = trimmedOrNil(a.Status)
	a.Observation = trimmedOrNil(a.Observation)

	switch item.Kind {
	case models.KindOptions:
		if a.Status != nil && !item.HasOption(*a.Status) {
			return a, models.NewValidation(fmt.Sprintf("Status inválido para o item %q: %q.", item.Name, *a.Status))
		}
	case models.KindRange:
		if a.Observation != nil {
			v, err := strconv.Atoi(*a.Observation)
			if err != nil || v < 0 || v > 100 {
				return a, models.NewValidation(fmt.Sprintf("Valor inválido para o item %q: deve estar entre 0 e 100.", item.Name))
			}
		}
	case models.KindNumber:
		if a.Observation != nil {
			v, err := strconv.ParseFloat(strings.ReplaceAll(*a.Observation, ",", "."), 64)
			if err != nil || v < 0 {
				return a, models.NewValidation(fmt.Sprintf("Valor inválido para o item %q: deve ser um número.", item.Name))
			}
		}
	default:
		return a, fmt.Errorf("unknown checklist item kind %q", item.Kind)
	}
	return a, nil
}
