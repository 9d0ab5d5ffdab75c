package report

import (
	"testing"

	"github.com/oficina-digital/vistoria/internal/models"
)

func strPtr(s string) *string { return &s }

func TestDisplayFor(t *testing.T) {
	choice := models.ChecklistItem{ID: 1, Order: 3, Name: "Pneu", Kind: models.KindOptions, Options: []string{"ok", "avariado"}}
	fuel := models.ChecklistItem{ID: 2, Order: 1, Name: "Combustível", Kind: models.KindRange}
	km := models.ChecklistItem{ID: 3, Order: 2, Name: "Quilometragem", Kind: models.KindNumber}

	tests := []struct {
		name   string
		item   models.ChecklistItem
		answer *models.ChecklistAnswer
		want   ItemDisplay
	}{
		{
			name:   "choice with observation",
			item:   choice,
			answer: &models.ChecklistAnswer{Status: strPtr("ok"), Observation: strPtr("fine")},
			want:   ItemDisplay{Label: "3. Pneu:", Status: "ok", Observation: "fine"},
		},
		{
			name: "choice without answer",
			item: choice,
			want: ItemDisplay{Label: "3. Pneu:", Status: models.NotFilled},
		},
		{
			name:   "choice with observation only",
			item:   choice,
			answer: &models.ChecklistAnswer{Observation: strPtr("riscado")},
			want:   ItemDisplay{Label: "3. Pneu:", Status: models.NotFilled, Observation: "riscado"},
		},
		{
			name:   "range shows value as status",
			item:   fuel,
			answer: &models.ChecklistAnswer{Status: strPtr("ignored"), Observation: strPtr("75")},
			want:   ItemDisplay{Label: "1. Combustível:", Status: "75"},
		},
		{
			name:   "number shows value as status",
			item:   km,
			answer: &models.ChecklistAnswer{Observation: strPtr("54321")},
			want:   ItemDisplay{Label: "2. Quilometragem:", Status: "54321"},
		},
		{
			name:   "number with empty value",
			item:   km,
			answer: &models.ChecklistAnswer{},
			want:   ItemDisplay{Label: "2. Quilometragem:", Status: models.NotFilled},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DisplayFor(tt.item, tt.answer)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		if _, err := DisplayFor(models.ChecklistItem{Kind: "texto"}, nil); err == nil {
			t.Fatalf("expected error for unknown kind")
		}
	})
}

func TestChecklistRows(t *testing.T) {
	items := []models.ChecklistItem{{ID: 1}, {ID: 2}, {ID: 3}}
	rows := ChecklistRows(items)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0].ID != 1 || rows[0][1].ID != 2 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1][0].ID != 3 || rows[1][1] != nil {
		t.Fatalf("last row must have only the left column: %+v", rows[1])
	}
	if len(ChecklistRows(nil)) != 0 {
		t.Fatalf("expected no rows for no items")
	}
}

func TestContentDisposition(t *testing.T) {
	order := models.ServiceOrder{VehicleModel: "Gol \"G5\"", VehiclePlate: "ABC1D23"}
	if got := Filename(order); got != "checklist-Gol _G5_-ABC1D23.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := ContentDisposition(models.ServiceOrder{VehicleModel: "Onix", VehiclePlate: "XYZ9876"}); got != `attachment; filename="checklist-Onix-XYZ9876.pdf"` {
		t.Fatalf("unexpected header %q", got)
	}
}
