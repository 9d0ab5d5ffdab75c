package report

import (
	"fmt"
	"strings"

	"github.com/oficina-digital/vistoria/internal/models"
)

// ItemDisplay é o texto de um item no grid do relatório.
type ItemDisplay struct {
	Label       string
	Status      string
	Observation string
}

// DisplayFor aplica as regras de exibição por tipo de item.
// Itens de escolha mostram status e observação; range e number mostram o valor como status.
func DisplayFor(item models.ChecklistItem, answer *models.ChecklistAnswer) (ItemDisplay, error) {
	d := ItemDisplay{Label: fmt.Sprintf("%d. %s:", item.Order, item.Name)}

	value, err := models.DecodeAnswer(item, answer)
	if err != nil {
		return ItemDisplay{}, err
	}
	switch v := value.(type) {
	case models.ChoiceAnswer:
		d.Status = v.Status
		d.Observation = v.Observation
	case models.RangeAnswer:
		d.Status = v.Value
	case models.NumberAnswer:
		d.Status = v.Value
	default:
		return ItemDisplay{}, fmt.Errorf("unhandled answer value %T", value)
	}
	if d.Status == "" {
		d.Status = models.NotFilled
	}
	return d, nil
}

// ChecklistRows agrupa os itens em linhas de duas colunas; a última linha
// de uma lista ímpar tem a coluna direita vazia.
func ChecklistRows(items []models.ChecklistItem) [][2]*models.ChecklistItem {
	rows := make([][2]*models.ChecklistItem, 0, (len(items)+1)/2)
	for i := 0; i < len(items); i += 2 {
		var row [2]*models.ChecklistItem
		row[0] = &items[i]
		if i+1 < len(items) {
			row[1] = &items[i+1]
		}
		rows = append(rows, row)
	}
	return rows
}

// Filename monta o nome do arquivo a partir do modelo e da placa do veículo.
func Filename(order models.ServiceOrder) string {
	return fmt.Sprintf("checklist-%s-%s.pdf", cleanName(order.VehicleModel), cleanName(order.VehiclePlate))
}

// ContentDisposition monta o cabeçalho de download do relatório.
func ContentDisposition(order models.ServiceOrder) string {
	return `attachment; filename="` + Filename(order) + `"`
}

func cleanName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return -1
		case r == '"', r == '\\', r == '/':
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
}
