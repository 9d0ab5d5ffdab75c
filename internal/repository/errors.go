package repository

import (
	"errors"

	"github.com/oficina-digital/vistoria/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Mensagens dos conflitos de integridade.
const (
	DuplicateMessage  = "registro já existe"
	ReferencedMessage = "registro possui vínculos e não pode ser alterado"
)

// mapPgError converte erros conhecidos do Postgres em erros de domínio.
func mapPgError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewNotFound(notFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return models.NewConflict(DuplicateMessage)
		case foreignKeyViolation:
			return models.NewConflict(ReferencedMessage)
		}
	}
	return err
}

// mapInsertError trata a violação de chave estrangeira numa escrita como
// referência inexistente (400 com missingRef); o resto segue mapPgError.
func mapInsertError(err error, notFound, missingRef string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return models.NewValidation(missingRef)
	}
	return mapPgError(err, notFound)
}
