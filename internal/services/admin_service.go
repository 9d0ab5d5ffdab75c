package services

import (
	"context"
	"errors"
	"strings"

	"github.com/oficina-digital/vistoria/internal/models"
	"github.com/oficina-digital/vistoria/internal/repository"
	"github.com/oficina-digital/vistoria/internal/validate"

	"golang.org/x/crypto/bcrypt"
)

const emailInUse = "Este e-mail já está em uso."

// AdminService - cadastro de oficinas e usuários, restrito ao superadmin.
type AdminService struct {
	Oficinas repository.OficinaRepository
	Users    repository.UserRepository
	Cost     int
}

// NewAdminService cria um novo AdminService.
func NewAdminService(oficinas repository.OficinaRepository, users repository.UserRepository) *AdminService {
	return &AdminService{Oficinas: oficinas, Users: users, Cost: bcrypt.DefaultCost}
}

// ListOficinas devolve todas as oficinas.
func (s *AdminService) ListOficinas(ctx context.Context) ([]models.Oficina, error) {
	return s.Oficinas.ListOficinas(ctx)
}

func normalizeOficina(req models.OficinaRequest) (models.OficinaRequest, error) {
	req.NomeFantasia = strings.TrimSpace(req.NomeFantasia)
	req.CNPJ = trimmedOrNil(req.CNPJ)
	req.Email = trimmedOrNil(req.Email)
	req.Telefone = trimmedOrNil(req.Telefone)
	if req.NomeFantasia == "" {
		return req, models.NewValidation("O nome fantasia é obrigatório.")
	}
	return req, nil
}

// CreateOficina cadastra uma oficina.
func (s *AdminService) CreateOficina(ctx context.Context, req models.OficinaRequest) (*models.Oficina, error) {
	req, err := normalizeOficina(req)
	if err != nil {
		return nil, err
	}
	return s.Oficinas.CreateOficina(ctx, req)
}

// UpdateOficina altera os dados de uma oficina.
func (s *AdminService) UpdateOficina(ctx context.Context, idStr string, req models.OficinaRequest) (*models.Oficina, error) {
	id, err := parseID(idStr, oficinaNotFound)
	if err != nil {
		return nil, err
	}
	req, err = normalizeOficina(req)
	if err != nil {
		return nil, err
	}
	return s.Oficinas.UpdateOficina(ctx, id, req)
}

// DeleteOficina remove uma oficina sem vínculos.
func (s *AdminService) DeleteOficina(ctx context.Context, idStr string) error {
	id, err := parseID(idStr, oficinaNotFound)
	if err != nil {
		return err
	}
	return s.Oficinas.DeleteOficina(ctx, id)
}

// ListUsers devolve os usuários com o nome da oficina.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Users.ListUsers(ctx)
}

// CreateUser cadastra um usuário de oficina.
func (s *AdminService) CreateUser(ctx context.Context, req models.UserRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" || req.OficinaID == nil {
		return nil, models.NewValidation("Todos os campos são obrigatórios para criar um novo usuário.")
	}
	if err := validate.Role(req.Role); err != nil {
		return nil, models.NewValidation(err.Error())
	}
	if err := validate.Password(req.Password); err != nil {
		return nil, models.NewValidation(err.Error())
	}

	hash, err := HashPassword(req.Password, s.Cost)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.CreateUser(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		OficinaID:    req.OficinaID,
	})
	if err != nil {
		return nil, emailConflict(err)
	}
	return user, nil
}

// UpdateUser altera um usuário; a senha só muda quando enviada.
// Contas de superadmin não são rebaixadas por aqui.
func (s *AdminService) UpdateUser(ctx context.Context, idStr string, req models.UserRequest) (*models.User, error) {
	id, err := parseID(idStr, userNotFound)
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Role == "" || req.OficinaID == nil {
		return nil, models.NewValidation("Nome, e-mail, role e oficina são obrigatórios.")
	}
	if err := validate.Role(req.Role); err != nil {
		return nil, models.NewValidation(err.Error())
	}

	current, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Role == models.RoleSuperadmin {
		return nil, models.NewValidation("Não é possível alterar o papel de um superadmin.")
	}

	user := models.User{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		OficinaID: req.OficinaID,
	}
	if req.Password != "" {
		if err := validate.Password(req.Password); err != nil {
			return nil, models.NewValidation(err.Error())
		}
		if user.PasswordHash, err = HashPassword(req.Password, s.Cost); err != nil {
			return nil, err
		}
	}

	updated, err := s.Users.UpdateUser(ctx, user)
	if err != nil {
		return nil, emailConflict(err)
	}
	return updated, nil
}

// DeleteUser remove um usuário. Ninguém remove a própria conta.
func (s *AdminService) DeleteUser(ctx context.Context, caller models.Caller, idStr string) error {
	id, err := parseID(idStr, userNotFound)
	if err != nil {
		return err
	}
	if id == caller.UserID {
		return models.NewValidation("Não é possível excluir o próprio usuário.")
	}
	return s.Users.DeleteUser(ctx, id)
}

func emailConflict(err error) error {
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) && errorResponse.Message == repository.DuplicateMessage {
		return models.NewConflict(emailInUse)
	}
	return err
}
