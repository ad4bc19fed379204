package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.BulkMovementRepository = (*BulkMovementRepo)(nil)

// BulkMovementRepo implementación del agregado BulkMovement sobre PostgreSQL
// (usable con pool o tx).
type BulkMovementRepo struct {
	q Querier
}

// NewBulkMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBulkMovementRepository(q Querier) *BulkMovementRepo {
	return &BulkMovementRepo{q: q}
}

const movementColumns = `id, from_location_id, to_location_id, status, public_token, token_expires_at,
	sender_notes, recipient_notes, confirmed_by, confirmed_at, created_by, created_at`

// Create persiste el movimiento y sus ítems. Una violación del índice único
// de public_token se traduce a domain.ErrDuplicate para que el caller pueda
// reintentar con otro token.
func (r *BulkMovementRepo) Create(m *entity.BulkMovement) error {
	query := `
		INSERT INTO bulk_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.FromLocationID, m.ToLocationID, m.Status, m.PublicToken, m.TokenExpiresAt,
		m.SenderNotes, m.RecipientNotes, nullIfEmpty(m.ConfirmedBy), m.ConfirmedAt,
		nullIfEmpty(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create bulk movement: %w", err)
	}
	for _, it := range m.Items {
		itemQuery := `
			INSERT INTO bulk_movement_items (id, bulk_movement_id, product_id, sku, product_name, product_image_url, quantity_sent, quantity_received)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := r.q.Exec(context.Background(), itemQuery,
			it.ID, it.BulkMovementID, it.ProductID, it.SKU, it.ProductName,
			it.ProductImageURL, it.QuantitySent, it.QuantityReceived,
		)
		if err != nil {
			return fmt.Errorf("create bulk movement item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un movimiento con sus ítems, o nil si no existe.
func (r *BulkMovementRepo) GetByID(id string) (*entity.BulkMovement, error) {
	return r.getOne("id = $1", id, false)
}

// GetByToken obtiene un movimiento por su token público, o nil si no existe.
func (r *BulkMovementRepo) GetByToken(token string) (*entity.BulkMovement, error) {
	return r.getOne("public_token = $1", token, false)
}

// GetByIDForUpdate obtiene el movimiento bloqueando su fila (SELECT FOR UPDATE).
func (r *BulkMovementRepo) GetByIDForUpdate(id string) (*entity.BulkMovement, error) {
	return r.getOne("id = $1", id, true)
}

// GetByTokenForUpdate obtiene el movimiento por token bloqueando su fila.
func (r *BulkMovementRepo) GetByTokenForUpdate(token string) (*entity.BulkMovement, error) {
	return r.getOne("public_token = $1", token, true)
}

func (r *BulkMovementRepo) getOne(where string, arg any, forUpdate bool) (*entity.BulkMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM bulk_movements WHERE ` + where
	if forUpdate {
		query += " FOR UPDATE"
	}
	m, err := r.scanMovement(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bulk movement: %w", err)
	}
	items, err := r.loadItems([]string{m.ID})
	if err != nil {
		return nil, err
	}
	m.Items = items[m.ID]
	return m, nil
}

func (r *BulkMovementRepo) scanMovement(row pgx.Row) (*entity.BulkMovement, error) {
	var m entity.BulkMovement
	var confirmedBy, createdBy *string
	err := row.Scan(
		&m.ID, &m.FromLocationID, &m.ToLocationID, &m.Status, &m.PublicToken, &m.TokenExpiresAt,
		&m.SenderNotes, &m.RecipientNotes, &confirmedBy, &m.ConfirmedAt, &createdBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if confirmedBy != nil {
		m.ConfirmedBy = *confirmedBy
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// loadItems carga los ítems de un conjunto de movimientos en una sola
// consulta y los agrupa por movimiento.
func (r *BulkMovementRepo) loadItems(movementIDs []string) (map[string][]*entity.BulkMovementItem, error) {
	if len(movementIDs) == 0 {
		return map[string][]*entity.BulkMovementItem{}, nil
	}
	query := `
		SELECT id, bulk_movement_id, product_id, sku, product_name, product_image_url, quantity_sent, quantity_received
		FROM bulk_movement_items
		WHERE bulk_movement_id = ANY($1)
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, movementIDs)
	if err != nil {
		return nil, fmt.Errorf("load bulk movement items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]*entity.BulkMovementItem, len(movementIDs))
	for rows.Next() {
		var it entity.BulkMovementItem
		if err := rows.Scan(&it.ID, &it.BulkMovementID, &it.ProductID, &it.SKU,
			&it.ProductName, &it.ProductImageURL, &it.QuantitySent, &it.QuantityReceived); err != nil {
			return nil, fmt.Errorf("scan bulk movement item: %w", err)
		}
		out[it.BulkMovementID] = append(out[it.BulkMovementID], &it)
	}
	return out, rows.Err()
}

// List lista movimientos con sus ítems según filtros, paginado, del más
// reciente al más antiguo.
func (r *BulkMovementRepo) List(filter repository.BulkMovementFilter, limit, offset int) ([]*entity.BulkMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM bulk_movements`
	where, args := buildMovementFilter(filter)
	query += where
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bulk movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.BulkMovement
	var ids []string
	for rows.Next() {
		m, err := r.scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bulk movement: %w", err)
		}
		list = append(list, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	items, err := r.loadItems(ids)
	if err != nil {
		return nil, err
	}
	for _, m := range list {
		m.Items = items[m.ID]
	}
	return list, nil
}

// Count cuenta los movimientos que cumplen el filtro.
func (r *BulkMovementRepo) Count(filter repository.BulkMovementFilter) (int, error) {
	query := `SELECT count(*) FROM bulk_movements`
	where, args := buildMovementFilter(filter)
	query += where
	var total int
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count bulk movements: %w", err)
	}
	return total, nil
}

func buildMovementFilter(filter repository.BulkMovementFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.LocationID != "" {
		add("(from_location_id = $%d OR to_location_id = $%[1]d)", filter.LocationID)
	}
	if filter.CreatedBy != "" {
		add("created_by = $%d", filter.CreatedBy)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at <= $%d", *filter.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	where := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		where += " AND " + c
	}
	return where, args
}

// UpdateStatusIfPending es la transición atómica de salida de pending:
// un solo UPDATE condicional, gana exactamente un actor. Los parámetros nil
// dejan su columna intacta.
func (r *BulkMovementRepo) UpdateStatusIfPending(id, newStatus string, confirmedBy *string, confirmedAt *time.Time, recipientNotes *string) (bool, error) {
	query := `
		UPDATE bulk_movements
		SET status = $2,
		    confirmed_by = COALESCE($3, confirmed_by),
		    confirmed_at = COALESCE($4, confirmed_at),
		    recipient_notes = COALESCE($5, recipient_notes)
		WHERE id = $1 AND status = 'pending'`
	tag, err := r.q.Exec(context.Background(), query, id, newStatus, confirmedBy, confirmedAt, recipientNotes)
	if err != nil {
		return false, fmt.Errorf("update bulk movement status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetItemQuantityReceived escribe la cantidad recibida de un ítem (solo
// durante la transacción de confirmación).
func (r *BulkMovementRepo) SetItemQuantityReceived(itemID string, quantityReceived int) error {
	query := `UPDATE bulk_movement_items SET quantity_received = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, itemID, quantityReceived)
	if err != nil {
		return fmt.Errorf("set item quantity received: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, itemID)
	}
	return nil
}

// UpdateSenderNotes modifica la nota del emisor solo mientras el movimiento
// siga pending.
func (r *BulkMovementRepo) UpdateSenderNotes(id, senderNotes string) (bool, error) {
	query := `UPDATE bulk_movements SET sender_notes = $2 WHERE id = $1 AND status = 'pending'`
	tag, err := r.q.Exec(context.Background(), query, id, senderNotes)
	if err != nil {
		return false, fmt.Errorf("update sender notes: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkExpiredBefore promueve a expired los pending con token vencido.
// Idempotente: las filas ya terminales no cumplen el WHERE.
func (r *BulkMovementRepo) MarkExpiredBefore(now time.Time) (int, error) {
	query := `UPDATE bulk_movements SET status = 'expired' WHERE status = 'pending' AND token_expires_at < $1`
	tag, err := r.q.Exec(context.Background(), query, now)
	if err != nil {
		return 0, fmt.Errorf("mark expired: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
