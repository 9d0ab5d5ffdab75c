package repository

import (
	"context"
	"fmt"

	"github.com/oficina-digital/vistoria/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const itemColumns = `id, ordem, nome, tipo, opcoes`

// PostgresChecklistRepository - implementação de ChecklistRepository.
type PostgresChecklistRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresChecklistRepository cria um novo PostgresChecklistRepository.
func NewPostgresChecklistRepository(db *pgxpool.Pool) *PostgresChecklistRepository {
	return &PostgresChecklistRepository{DB: db}
}

func collectItems(rows pgx.Rows) ([]models.ChecklistItem, error) {
	defer rows.Close()

	items := make([]models.ChecklistItem, 0)
	for rows.Next() {
		var item models.ChecklistItem
		if err := rows.Scan(
			&item.ID,
			&item.Order,
			&item.Name,
			&item.Kind,
			&item.Options); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListItems devolve todos os itens na ordem de exibição.
func (r *PostgresChecklistRepository) ListItems(ctx context.Context) ([]models.ChecklistItem, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+itemColumns+` FROM checklist_item ORDER BY ordem, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}
	return collectItems(rows)
}

// ItemsByIDs devolve os itens cujos ids estão na lista.
func (r *PostgresChecklistRepository) ItemsByIDs(ctx context.Context, ids []int64) ([]models.ChecklistItem, error) {
	if len(ids) == 0 {
		return []models.ChecklistItem{}, nil
	}
	rows, err := r.DB.Query(ctx, `SELECT `+itemColumns+` FROM checklist_item WHERE id = ANY($1) ORDER BY ordem, id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load checklist items: %w", err)
	}
	return collectItems(rows)
}

// ListAnswers devolve as respostas gravadas para a OS.
func (r *PostgresChecklistRepository) ListAnswers(ctx context.Context, orderID int64) ([]models.ChecklistAnswer, error) {
	rows, err := r.DB.Query(ctx, `SELECT os_id, item_id, status, observacao FROM checklist_resposta WHERE os_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	answers := make([]models.ChecklistAnswer, 0)
	for rows.Next() {
		var a models.ChecklistAnswer
		if err := rows.Scan(&a.OrderID, &a.ItemID, &a.Status, &a.Observation); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ReplaceAnswers apaga as respostas da OS e insere o novo conjunto numa única transação.
func (r *PostgresChecklistRepository) ReplaceAnswers(ctx context.Context, orderID int64, answers []models.ChecklistAnswer) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM checklist_resposta WHERE os_id = $1`, orderID); err != nil {
		return fmt.Errorf("failed to delete answers: %w", err)
	}

	if len(answers) > 0 {
		batch := &pgx.Batch{}
		for _, a := range answers {
			batch.Queue(`INSERT INTO checklist_resposta (os_id, item_id, status, observacao) VALUES ($1, $2, $3, $4)`,
				orderID, a.ItemID, a.Status, a.Observation)
		}
		br := tx.SendBatch(ctx, batch)
		for range answers {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("failed to insert answer: %w", mapPgError(err, orderNotFound))
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to insert answers: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit answers: %w", err)
	}
	return nil
}
