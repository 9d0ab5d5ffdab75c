package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/oficina-digital/vistoria/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderNotFound = "Ordem de serviço não encontrada."

const orderColumns = `id, cliente_nome, veiculo_placa, veiculo_modelo, seguradora_nome, data, assinatura_cliente, oficina_id`

// PostgresOrderRepository - implementação de OrderRepository sobre o Postgres.
type PostgresOrderRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresOrderRepository cria um novo PostgresOrderRepository.
func NewPostgresOrderRepository(db *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

func scanOrder(row pgx.Row) (*models.ServiceOrder, error) {
	var o models.ServiceOrder
	if err := row.Scan(
		&o.ID,
		&o.ClientName,
		&o.VehiclePlate,
		&o.VehicleModel,
		&o.InsurerName,
		&o.CreatedAt,
		&o.Signature,
		&o.OficinaID); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrder busca uma OS pelo id.
func (r *PostgresOrderRepository) GetOrder(ctx context.Context, id int64) (*models.ServiceOrder, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM ordem_servico WHERE id = $1`, id))
	if err != nil {
		return nil, mapPgError(err, orderNotFound)
	}
	return o, nil
}

// ListOrders devolve uma página de ordens e o total que atende ao filtro.
func (r *PostgresOrderRepository) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.ServiceOrder, int, error) {
	var filters []string
	var args []interface{}
	argIndex := 1

	if filter.OficinaID != nil {
		filters = append(filters, fmt.Sprintf("oficina_id = $%d", argIndex))
		args = append(args, *filter.OficinaID)
		argIndex++
	}
	if filter.Search != "" {
		filters = append(filters, fmt.Sprintf("(cliente_nome ILIKE $%d OR veiculo_placa ILIKE $%d OR veiculo_modelo ILIKE $%d)", argIndex, argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	where := ""
	if len(filters) > 0 {
		where = " WHERE " + strings.Join(filters, " AND ")
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM ordem_servico`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := `SELECT ` + orderColumns + ` FROM ordem_servico` + where +
		fmt.Sprintf(" ORDER BY data DESC, id DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]models.ServiceOrder, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

// CreateOrder insere uma nova OS.
func (r *PostgresOrderRepository) CreateOrder(ctx context.Context, req models.ServiceOrderRequest) (*models.ServiceOrder, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `
		INSERT INTO ordem_servico (cliente_nome, veiculo_placa, veiculo_modelo, seguradora_nome, oficina_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+orderColumns,
		req.ClientName,
		req.VehiclePlate,
		req.VehicleModel,
		req.InsurerName,
		req.OficinaID))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", mapInsertError(err, orderNotFound, oficinaNotFound))
	}
	return o, nil
}

// UpdateOrder altera os dados cadastrais de uma OS.
func (r *PostgresOrderRepository) UpdateOrder(ctx context.Context, id int64, req models.ServiceOrderRequest) (*models.ServiceOrder, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `
		UPDATE ordem_servico
		SET cliente_nome = $1, veiculo_placa = $2, veiculo_modelo = $3, seguradora_nome = $4
		WHERE id = $5
		RETURNING `+orderColumns,
		req.ClientName,
		req.VehiclePlate,
		req.VehicleModel,
		req.InsurerName,
		id))
	if err != nil {
		return nil, mapPgError(err, orderNotFound)
	}
	return o, nil
}

// DeleteOrder remove a OS; respostas e fotos caem em cascata.
func (r *PostgresOrderRepository) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM ordem_servico WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err, orderNotFound)
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound(orderNotFound)
	}
	return nil
}

// SetSignature grava a assinatura do cliente.
func (r *PostgresOrderRepository) SetSignature(ctx context.Context, id int64, signature string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE ordem_servico SET assinatura_cliente = $1 WHERE id = $2`, signature, id)
	if err != nil {
		return fmt.Errorf("failed to save signature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound(orderNotFound)
	}
	return nil
}
