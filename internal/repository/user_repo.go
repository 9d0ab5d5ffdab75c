package repository

import (
	"context"
	"fmt"

	"github.com/oficina-digital/vistoria/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userNotFound = "Usuário não encontrado."

const userColumns = `u.id, u.nome, u.email, u.senha, u.role, u.oficina_id, o.nome_fantasia`

const userFrom = ` FROM usuarios u LEFT JOIN oficinas o ON o.id = u.oficina_id`

// PostgresUserRepository - implementação de UserRepository.
type PostgresUserRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresUserRepository cria um novo PostgresUserRepository.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.OficinaID, &u.OficinaName); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail busca o usuário pelo e-mail de login.
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+userFrom+` WHERE u.email = $1`, email))
	if err != nil {
		return nil, mapPgError(err, userNotFound)
	}
	return u, nil
}

// GetUserByID busca o usuário pelo id.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+userFrom+` WHERE u.id = $1`, id))
	if err != nil {
		return nil, mapPgError(err, userNotFound)
	}
	return u, nil
}

// ListUsers devolve os usuários com o nome da oficina.
func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+userFrom+` ORDER BY u.nome`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// CreateUser insere um usuário com a senha já em hash.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO usuarios (nome, email, senha, role, oficina_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		user.Name, user.Email, user.PasswordHash, user.Role, user.OficinaID).Scan(&user.ID)
	if err != nil {
		return nil, mapInsertError(err, userNotFound, oficinaNotFound)
	}
	return &user, nil
}

// UpdateUser altera os dados do usuário; um hash vazio mantém a senha atual.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user models.User) (*models.User, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE usuarios
		SET nome = $1, email = $2, role = $3, oficina_id = $4, senha = COALESCE(NULLIF($5, ''), senha)
		WHERE id = $6`,
		user.Name, user.Email, user.Role, user.OficinaID, user.PasswordHash, user.ID)
	if err != nil {
		return nil, mapInsertError(err, userNotFound, oficinaNotFound)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.NewNotFound(userNotFound)
	}
	return r.GetUserByID(ctx, user.ID)
}

// DeleteUser remove o usuário.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err, userNotFound)
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound(userNotFound)
	}
	return nil
}

// UpdatePassword troca o hash de senha do usuário.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE usuarios SET senha = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound(userNotFound)
	}
	return nil
}
