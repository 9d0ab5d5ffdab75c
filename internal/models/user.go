package models

import "time"

type Role string

const (
	RoleSuperadmin Role = "superadmin" // gerencia oficinas e usuários, sem restrição de oficina
	RoleAdmin      Role = "admin"      // administrador da oficina
	RoleMember     Role = "membro"     // membro da oficina
)

// Oficina é o tenant: a unidade de isolamento de dados.
type Oficina struct {
	ID           int64     `json:"id"`
	NomeFantasia string    `json:"nome_fantasia"`
	CNPJ         *string   `json:"cnpj"`
	Email        *string   `json:"email"`
	Telefone     *string   `json:"telefone"`
	CreatedAt    time.Time `json:"created_at"`
}

// OficinaRequest é o payload de criação e edição de oficina.
type OficinaRequest struct {
	NomeFantasia string  `json:"nome_fantasia"`
	CNPJ         *string `json:"cnpj"`
	Email        *string `json:"email"`
	Telefone     *string `json:"telefone"`
}

// User é um usuário do sistema. PasswordHash nunca é serializado.
type User struct {
	ID           int64   `json:"id"`
	Name         string  `json:"nome"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Role         Role    `json:"role"`
	OficinaID    *int64  `json:"oficina_id"`
	OficinaName  *string `json:"oficina_nome,omitempty"`
}

// UserRequest é o payload de criação e edição de usuário.
type UserRequest struct {
	Name      string `json:"nome"`
	Email     string `json:"email"`
	Password  string `json:"senha"`
	Role      Role   `json:"role"`
	OficinaID *int64 `json:"oficina_id"`
}

// LoginRequest é o payload de login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// LoginResponse devolve o token e um resumo do usuário autenticado.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"usuario"`
}

// ChangePasswordRequest é o payload de troca da própria senha.
type ChangePasswordRequest struct {
	OldPassword string `json:"senhaAntiga"`
	NewPassword string `json:"novaSenha"`
}

// Caller é o usuário autenticado que executa a requisição.
type Caller struct {
	UserID    int64
	Role      Role
	OficinaID *int64
}

// IsSuperadmin informa se o chamador ignora o isolamento por oficina.
func (c Caller) IsSuperadmin() bool {
	return c.Role == RoleSuperadmin
}

// CanAccessTenant é o predicado único de autorização por oficina.
func (c Caller) CanAccessTenant(oficinaID *int64) bool {
	if c.IsSuperadmin() {
		return true
	}
	if c.OficinaID == nil || oficinaID == nil {
		return false
	}
	return *c.OficinaID == *oficinaID
}
