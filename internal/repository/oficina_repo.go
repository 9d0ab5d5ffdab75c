package repository

import (
	"context"
	"fmt"

	"github.com/oficina-digital/vistoria/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const oficinaNotFound = "Oficina não encontrada."

// PostgresOficinaRepository - implementação de OficinaRepository.
type PostgresOficinaRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresOficinaRepository cria um novo PostgresOficinaRepository.
func NewPostgresOficinaRepository(db *pgxpool.Pool) *PostgresOficinaRepository {
	return &PostgresOficinaRepository{DB: db}
}

func scanOficina(row pgx.Row) (*models.Oficina, error) {
	var o models.Oficina
	if err := row.Scan(&o.ID, &o.NomeFantasia, &o.CNPJ, &o.Email, &o.Telefone, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOficinas devolve as oficinas por nome.
func (r *PostgresOficinaRepository) ListOficinas(ctx context.Context) ([]models.Oficina, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, nome_fantasia, cnpj, email, telefone, created_at FROM oficinas ORDER BY nome_fantasia`)
	if err != nil {
		return nil, fmt.Errorf("failed to list oficinas: %w", err)
	}
	defer rows.Close()

	oficinas := make([]models.Oficina, 0)
	for rows.Next() {
		o, err := scanOficina(rows)
		if err != nil {
			return nil, err
		}
		oficinas = append(oficinas, *o)
	}
	return oficinas, rows.Err()
}

// CreateOficina cadastra uma nova oficina.
func (r *PostgresOficinaRepository) CreateOficina(ctx context.Context, req models.OficinaRequest) (*models.Oficina, error) {
	o, err := scanOficina(r.DB.QueryRow(ctx, `
		INSERT INTO oficinas (nome_fantasia, cnpj, email, telefone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, nome_fantasia, cnpj, email, telefone, created_at`,
		req.NomeFantasia, req.CNPJ, req.Email, req.Telefone))
	if err != nil {
		return nil, mapPgError(err, oficinaNotFound)
	}
	return o, nil
}

// UpdateOficina altera os dados de uma oficina.
func (r *PostgresOficinaRepository) UpdateOficina(ctx context.Context, id int64, req models.OficinaRequest) (*models.Oficina, error) {
	o, err := scanOficina(r.DB.QueryRow(ctx, `
		UPDATE oficinas SET nome_fantasia = $1, cnpj = $2, email = $3, telefone = $4
		WHERE id = $5
		RETURNING id, nome_fantasia, cnpj, email, telefone, created_at`,
		req.NomeFantasia, req.CNPJ, req.Email, req.Telefone, id))
	if err != nil {
		return nil, mapPgError(err, oficinaNotFound)
	}
	return o, nil
}

// DeleteOficina remove uma oficina sem usuários nem ordens vinculadas.
func (r *PostgresOficinaRepository) DeleteOficina(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM oficinas WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err, oficinaNotFound)
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound(oficinaNotFound)
	}
	return nil
}
