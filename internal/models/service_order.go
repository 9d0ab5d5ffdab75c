package models

import "time"

// ServiceOrder representa uma ordem de serviço (OS): uma vistoria de veículo.
type ServiceOrder struct {
	ID           int64     `json:"id"`
	ClientName   string    `json:"cliente_nome"`
	VehiclePlate string    `json:"veiculo_placa"`
	VehicleModel string    `json:"veiculo_modelo"`
	InsurerName  *string   `json:"seguradora_nome"`
	CreatedAt    time.Time `json:"data"`
	Signature    *string   `json:"assinatura_cliente,omitempty"`
	OficinaID    *int64    `json:"oficina_id"`
}

// ServiceOrderRequest é o payload de criação e edição de uma OS.
type ServiceOrderRequest struct {
	ClientName   string  `json:"cliente_nome"`
	VehiclePlate string  `json:"veiculo_placa"`
	VehicleModel string  `json:"veiculo_modelo"`
	InsurerName  *string `json:"seguradora_nome"`
	OficinaID    *int64  `json:"oficina_id"`
}

// OrderFilter descreve a listagem paginada de ordens.
type OrderFilter struct {
	OficinaID *int64
	Search    string
	Limit     int
	Offset    int
}

// OrderPage é a resposta paginada da listagem de ordens.
type OrderPage struct {
	Data        []ServiceOrder `json:"data"`
	TotalItems  int            `json:"totalItems"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// SignatureRequest carrega a assinatura do cliente como data URL.
type SignatureRequest struct {
	Signature string `json:"assinatura"`
}

// OrderView é a visão agregada de uma OS: ordem, itens, respostas e fotos.
type OrderView struct {
	Order   ServiceOrder              `json:"ordem"`
	Items   []ChecklistItem           `json:"itens"`
	Answers map[int64]ChecklistAnswer `json:"respostas"`
	Photos  []Photo                   `json:"fotos"`
}

// OrderDetail é a OS com respostas e fotos, como exibida na tela de checklist.
type OrderDetail struct {
	ServiceOrder
	Answers []ChecklistAnswer `json:"respostas"`
	Photos  []Photo           `json:"fotos"`
}

// Photo é uma foto anexada a uma OS; Path guarda a URL do objeto armazenado.
type Photo struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"os_id"`
	Path      string    `json:"caminho_arquivo"`
	CreatedAt time.Time `json:"created_at"`
}
