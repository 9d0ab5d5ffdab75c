package repository

import (
	"context"

	"github.com/oficina-digital/vistoria/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mocks/repository_mock.go -package=mocks

// OrderRepository - interface de acesso às ordens de serviço.
type OrderRepository interface {
	GetOrder(ctx context.Context, id int64) (*models.ServiceOrder, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.ServiceOrder, int, error)
	CreateOrder(ctx context.Context, req models.ServiceOrderRequest) (*models.ServiceOrder, error)
	UpdateOrder(ctx context.Context, id int64, req models.ServiceOrderRequest) (*models.ServiceOrder, error)
	DeleteOrder(ctx context.Context, id int64) error
	SetSignature(ctx context.Context, id int64, signature string) error
}

// ChecklistRepository acessa os itens do checklist e as respostas de cada OS.
type ChecklistRepository interface {
	ListItems(ctx context.Context) ([]models.ChecklistItem, error)
	ItemsByIDs(ctx context.Context, ids []int64) ([]models.ChecklistItem, error)
	ListAnswers(ctx context.Context, orderID int64) ([]models.ChecklistAnswer, error)
	ReplaceAnswers(ctx context.Context, orderID int64, answers []models.ChecklistAnswer) error
}

// PhotoRepository acessa os registros de fotos anexadas.
type PhotoRepository interface {
	ListPhotos(ctx context.Context, orderID int64) ([]models.Photo, error)
	GetPhoto(ctx context.Context, id int64) (*models.Photo, error)
	CreatePhoto(ctx context.Context, orderID int64, path string) (*models.Photo, error)
	DeletePhoto(ctx context.Context, id int64) error
}

// OficinaRepository acessa o cadastro de oficinas.
type OficinaRepository interface {
	ListOficinas(ctx context.Context) ([]models.Oficina, error)
	CreateOficina(ctx context.Context, req models.OficinaRequest) (*models.Oficina, error)
	UpdateOficina(ctx context.Context, id int64, req models.OficinaRequest) (*models.Oficina, error)
	DeleteOficina(ctx context.Context, id int64) error
}

// UserRepository acessa o cadastro de usuários.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
}
