package repository

import (
	"context"
	"fmt"

	"github.com/oficina-digital/vistoria/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const photoNotFound = "Foto não encontrada."

// PostgresPhotoRepository - implementação de PhotoRepository.
type PostgresPhotoRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresPhotoRepository cria um novo PostgresPhotoRepository.
func NewPostgresPhotoRepository(db *pgxpool.Pool) *PostgresPhotoRepository {
	return &PostgresPhotoRepository{DB: db}
}

func scanPhoto(row pgx.Row) (*models.Photo, error) {
	var p models.Photo
	if err := row.Scan(&p.ID, &p.OrderID, &p.Path, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPhotos devolve as fotos da OS na ordem de envio.
func (r *PostgresPhotoRepository) ListPhotos(ctx context.Context, orderID int64) ([]models.Photo, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, os_id, caminho_arquivo, created_at FROM checklist_foto WHERE os_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	photos := make([]models.Photo, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, *p)
	}
	return photos, rows.Err()
}

// GetPhoto busca uma foto pelo id.
func (r *PostgresPhotoRepository) GetPhoto(ctx context.Context, id int64) (*models.Photo, error) {
	p, err := scanPhoto(r.DB.QueryRow(ctx, `SELECT id, os_id, caminho_arquivo, created_at FROM checklist_foto WHERE id = $1`, id))
	if err != nil {
		return nil, mapPgError(err, photoNotFound)
	}
	return p, nil
}

// CreatePhoto registra uma foto já armazenada.
func (r *PostgresPhotoRepository) CreatePhoto(ctx context.Context, orderID int64, path string) (*models.Photo, error) {
	p, err := scanPhoto(r.DB.QueryRow(ctx, `
		INSERT INTO checklist_foto (os_id, caminho_arquivo)
		VALUES ($1, $2)
		RETURNING id, os_id, caminho_arquivo, created_at`, orderID, path))
	if err != nil {
		return nil, fmt.Errorf("failed to insert photo: %w", err)
	}
	return p, nil
}

// DeletePhoto remove o registro da foto.
func (r *PostgresPhotoRepository) DeletePhoto(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM checklist_foto WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound(photoNotFound)
	}
	return nil
}
