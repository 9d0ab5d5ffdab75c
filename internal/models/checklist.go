package models

import "fmt"

// ItemKind é o tipo de resposta declarado por um item do checklist.
type ItemKind string

const (
	KindOptions ItemKind = "options" // escolha entre rótulos fixos
	KindRange   ItemKind = "range"   // valor de 0 a 100 (nível de combustível)
	KindNumber  ItemKind = "number"  // número livre (quilometragem)
)

// NotFilled é o texto exibido para itens sem resposta.
const NotFilled = "Não preenchido"

// ChecklistItem é a definição global de um ponto de inspeção.
type ChecklistItem struct {
	ID      int64    `json:"id"`
	Order   int      `json:"ordem"`
	Name    string   `json:"nome"`
	Kind    ItemKind `json:"tipo"`
	Options []string `json:"opcoes"`
}

// HasOption informa se status é um rótulo válido para o item.
func (i ChecklistItem) HasOption(status string) bool {
	for _, o := range i.Options {
		if o == status {
			return true
		}
	}
	return false
}

// ChecklistAnswer é a linha gravada para o par (ordem, item).
type ChecklistAnswer struct {
	OrderID     int64   `json:"os_id"`
	ItemID      int64   `json:"item_id"`
	Status      *string `json:"status"`
	Observation *string `json:"observacao"`
}

// AnswersRequest é o payload de gravação das respostas de uma OS.
type AnswersRequest struct {
	OrderID int64             `json:"os_id"`
	Answers []ChecklistAnswer `json:"respostas"`
}

// AnswerValue é a resposta interpretada segundo o tipo do item.
// As implementações são ChoiceAnswer, RangeAnswer e NumberAnswer.
type AnswerValue interface {
	isAnswerValue()
}

// ChoiceAnswer - resposta de item com opções (status escolhido).
type ChoiceAnswer struct {
	Status      string
	Observation string
}

// RangeAnswer - resposta de item de faixa, valor de 0 a 100.
type RangeAnswer struct {
	Value string
}

// NumberAnswer - resposta numérica livre.
type NumberAnswer struct {
	Value string
}

func (ChoiceAnswer) isAnswerValue() {}
func (RangeAnswer) isAnswerValue()  {}
func (NumberAnswer) isAnswerValue() {}

// DecodeAnswer interpreta a linha gravada conforme o tipo do item.
// Uma resposta ausente resulta em um valor vazio do tipo correspondente.
func DecodeAnswer(item ChecklistItem, row *ChecklistAnswer) (AnswerValue, error) {
	var status, observation string
	if row != nil {
		status = deref(row.Status)
		observation = deref(row.Observation)
	}
	switch item.Kind {
	case KindOptions:
		return ChoiceAnswer{Status: status, Observation: observation}, nil
	case KindRange:
		return RangeAnswer{Value: observation}, nil
	case KindNumber:
		return NumberAnswer{Value: observation}, nil
	default:
		return nil, fmt.Errorf("unknown checklist item kind %q", item.Kind)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
