package bulkmovement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
	"github.com/jhoicas/stockflow-api/pkg/token"
)

// ConfirmUseCase es el motor de confirmación: valida el envío del receptor y
// lo aplica de forma atómica sobre ítems, ledger, stock y estado del
// movimiento. Una confirmación y un barrido de expiración (o una segunda
// confirmación) que corran en paralelo sobre el mismo movimiento producen
// exactamente un ganador; el perdedor observa el estado terminal y falla.
type ConfirmUseCase struct {
	txRunner     TxRunner
	bulkRepo     repository.BulkMovementRepository
	locationRepo repository.LocationRepository
}

// NewConfirmUseCase construye el motor.
func NewConfirmUseCase(
	txRunner TxRunner,
	bulkRepo repository.BulkMovementRepository,
	locationRepo repository.LocationRepository,
) *ConfirmUseCase {
	return &ConfirmUseCase{
		txRunner:     txRunner,
		bulkRepo:     bulkRepo,
		locationRepo: locationRepo,
	}
}

// ConfirmItemInput cantidad recibida de un ítem del movimiento.
type ConfirmItemInput struct {
	ItemID           string
	QuantityReceived int
}

// ConfirmInput entrada del motor. Items debe cubrir exactamente todos los
// ítems del movimiento: los envíos parciales se rechazan completos.
type ConfirmInput struct {
	ConfirmedBy    string
	RecipientNotes string
	Items          []ConfirmItemInput
}

// Confirm valida en orden (token, estado, expiración, identidad, cobertura de
// ítems, rangos de cantidad) y aplica en una sola transacción: cantidades
// recibidas por ítem, una entrada de ledger y el ajuste de stock en origen y
// destino por cada ítem con cantidad > 0, y la transición pending ->
// confirmed como update condicional. Cualquier fallo anterior al commit deja
// el movimiento pending, sin entradas parciales de ledger.
func (uc *ConfirmUseCase) Confirm(ctx context.Context, publicToken string, input ConfirmInput) (*entity.BulkMovement, error) {
	m, err := uc.bulkRepo.GetByToken(publicToken)
	if err != nil {
		return nil, err
	}
	if m == nil {
		// Solo el prefijo del token: el token completo no debe llegar a logs.
		return nil, fmt.Errorf("%w: token %s", domain.ErrNotFound, token.Abbrev(publicToken))
	}
	if m.Status != entity.StatusPending {
		return nil, publicStatusError(m.Status)
	}

	now := time.Now()
	if m.IsExpiredAt(now) {
		// Expiración perezosa: el chequeo mismo promueve el movimiento a
		// expired. El sweeper es solo un respaldo de este camino.
		uc.lazyExpire(m.ID)
		return nil, domain.ErrExpired
	}

	if input.ConfirmedBy == "" {
		return nil, fmt.Errorf("%w: confirmed_by requerido", domain.ErrInvalidInput)
	}
	itemsByID, err := matchItems(m, input.Items)
	if err != nil {
		return nil, err
	}

	txID := uuid.New().String()
	err = uc.txRunner.Run(ctx, func(
		bulkRepo repository.BulkMovementRepository,
		logRepo repository.MovementLogRepository,
		stockRepo repository.InventoryRecordRepository,
	) error {
		// Bloquear primero la fila del movimiento y después las de stock,
		// siempre en ese orden, para no interbloquear con otros caminos de
		// movimiento.
		locked, err := bulkRepo.GetByTokenForUpdate(publicToken)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if locked.Status != entity.StatusPending {
			return publicStatusError(locked.Status)
		}
		if locked.IsExpiredAt(time.Now()) {
			return domain.ErrExpired
		}

		for _, in := range input.Items {
			if err := bulkRepo.SetItemQuantityReceived(in.ItemID, in.QuantityReceived); err != nil {
				return err
			}
		}

		for _, in := range input.Items {
			if in.QuantityReceived == 0 {
				continue
			}
			item := itemsByID[in.ItemID]
			if err := uc.applyStockAndLedger(logRepo, stockRepo, locked, item, in.QuantityReceived, input, txID, now); err != nil {
				return err
			}
		}

		ok, err := bulkRepo.UpdateStatusIfPending(locked.ID, entity.StatusConfirmed, &input.ConfirmedBy, &now, &input.RecipientNotes)
		if err != nil {
			return err
		}
		if !ok {
			// Con la fila bloqueada esto no debería ocurrir; si ocurre, el
			// rollback descarta todo lo anterior.
			return domain.ErrInvalidState
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrExpired) {
			// La transacción se revirtió; dejar constancia del vencimiento
			// fuera de ella.
			uc.lazyExpire(m.ID)
		}
		return nil, err
	}

	return uc.bulkRepo.GetByID(m.ID)
}

// applyStockAndLedger mueve la cantidad recibida de un ítem entre las dos
// ubicaciones y añade la entrada de ledger correspondiente, con el stock en
// origen previo al movimiento como FromStockLevel.
func (uc *ConfirmUseCase) applyStockAndLedger(
	logRepo repository.MovementLogRepository,
	stockRepo repository.InventoryRecordRepository,
	m *entity.BulkMovement,
	item *entity.BulkMovementItem,
	quantity int,
	input ConfirmInput,
	txID string,
	now time.Time,
) error {
	qty := decimal.NewFromInt(int64(quantity))

	origin, err := stockRepo.GetForUpdate(item.ProductID, m.FromLocationID)
	if err != nil {
		return err
	}
	fromStockLevel := origin.Quantity
	// El receptor registra la realidad: si el origen queda en negativo, la
	// discrepancia queda auditada vía FromStockLevel, no se bloquea la
	// confirmación.
	origin.Quantity = origin.Quantity.Sub(qty)
	origin.UpdatedAt = now
	if err := stockRepo.Upsert(origin); err != nil {
		return err
	}

	dest, err := stockRepo.GetForUpdate(item.ProductID, m.ToLocationID)
	if err != nil {
		return err
	}
	dest.Quantity = dest.Quantity.Add(qty)
	dest.UpdatedAt = now
	if err := stockRepo.Upsert(dest); err != nil {
		return err
	}

	return logRepo.Create(&entity.MovementLog{
		ID:             uuid.New().String(),
		TransactionID:  txID,
		ProductID:      item.ProductID,
		FromLocationID: m.FromLocationID,
		ToLocationID:   m.ToLocationID,
		QuantityMoved:  quantity,
		FromStockLevel: fromStockLevel,
		MovedBy:        input.ConfirmedBy,
		MovementType:   entity.MovementTypeBulk,
		Notes:          input.RecipientNotes,
		CreatedAt:      now,
	})
}

// matchItems verifica que el envío cubra exactamente los ítems del movimiento
// (sin faltantes, sobrantes ni duplicados) y que cada cantidad esté en
// [0, quantitySent]. Devuelve el índice ítem por ID.
func matchItems(m *entity.BulkMovement, inputs []ConfirmItemInput) (map[string]*entity.BulkMovementItem, error) {
	byID := make(map[string]*entity.BulkMovementItem, len(m.Items))
	for _, it := range m.Items {
		byID[it.ID] = it
	}
	if len(inputs) != len(m.Items) {
		return nil, fmt.Errorf("%w: la confirmación debe cubrir los %d ítems del movimiento", domain.ErrInvalidInput, len(m.Items))
	}
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		item, ok := byID[in.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: el ítem %s no pertenece al movimiento", domain.ErrInvalidInput, in.ItemID)
		}
		if _, dup := seen[in.ItemID]; dup {
			return nil, fmt.Errorf("%w: ítem %s repetido", domain.ErrInvalidInput, in.ItemID)
		}
		seen[in.ItemID] = struct{}{}
		if in.QuantityReceived < 0 {
			return nil, fmt.Errorf("%w: cantidad recibida negativa para el ítem %s", domain.ErrInvalidInput, in.ItemID)
		}
		if in.QuantityReceived > item.QuantitySent {
			return nil, fmt.Errorf("%w: el ítem %s recibe %d pero solo se enviaron %d",
				domain.ErrInvalidInput, in.ItemID, in.QuantityReceived, item.QuantitySent)
		}
	}
	return byID, nil
}

// publicStatusError traduce un estado terminal para la superficie pública:
// un movimiento cancelado responde como inexistente para no filtrar la
// intención del emisor; los demás estados conservan su error propio.
func publicStatusError(status string) error {
	if status == entity.StatusCancelled {
		return domain.ErrNotFound
	}
	return statusToError(status)
}

// lazyExpire intenta promover el movimiento a expired fuera de cualquier
// transacción en curso. Si otra confirmación o el sweeper ya lo movieron de
// pending, el update condicional no hace nada.
func (uc *ConfirmUseCase) lazyExpire(id string) {
	_, _ = uc.bulkRepo.UpdateStatusIfPending(id, entity.StatusExpired, nil, nil, nil)
}

// GetPublicByToken es la lectura pública del enlace: devuelve la proyección
// de snapshot con los nombres de las ubicaciones e indica si el token ya
// venció, calculado al momento de la lectura aunque el sweeper no haya
// corrido. Un movimiento cancelado responde como inexistente para no filtrar
// la intención del emisor.
func (uc *ConfirmUseCase) GetPublicByToken(ctx context.Context, publicToken string) (*entity.BulkMovement, *entity.Location, *entity.Location, bool, error) {
	m, err := uc.bulkRepo.GetByToken(publicToken)
	if err != nil {
		return nil, nil, nil, false, err
	}
	if m == nil || m.Status == entity.StatusCancelled {
		return nil, nil, nil, false, domain.ErrNotFound
	}
	from, err := uc.locationRepo.GetByID(m.FromLocationID)
	if err != nil {
		return nil, nil, nil, false, err
	}
	to, err := uc.locationRepo.GetByID(m.ToLocationID)
	if err != nil {
		return nil, nil, nil, false, err
	}
	isExpired := m.Status == entity.StatusExpired ||
		(m.Status == entity.StatusPending && m.IsExpiredAt(time.Now()))
	return m, from, to, isExpired, nil
}
